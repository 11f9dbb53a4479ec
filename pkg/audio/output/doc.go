// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output/Device interfaces and oto, malgo, PortAudio, null backends
// Package output provides audio playback devices.
//
// An Output is a backend (oto, malgo, PortAudio, or the silent null
// backend). Each playback session opens its own Device, plays exactly one
// decoded buffer on it, and closes it when done or interrupted.
//
// Example:
//
//	out, err := output.New("oto")
//	dev, err := out.Open(audio.SpeechFormat)
//	err = dev.Play(buf, func() { log.Println("finished") })
//	defer dev.Close()
package output
