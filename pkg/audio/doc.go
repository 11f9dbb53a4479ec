// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types and sample conversion functions
// Package audio provides fundamental audio types used by the couch player.
//
// This package defines core types used throughout the module:
//   - Format: Describes audio stream format (codec, sample rate, channels, bit depth)
//   - Buffer: Decoded audio as per-channel float samples in [-1.0, 1.0]
//
// Speech returned by the generation API is always SpeechFormat:
// headerless PCM16 little-endian, mono, 24kHz.
//
// Example:
//
//	buf := audio.NewBuffer(audio.SpeechFormat, 24000)
//	fmt.Println(buf.Duration()) // 1s
package audio
