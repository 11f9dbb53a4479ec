// ABOUTME: Package playback drives one interruptible audio session per controller
// ABOUTME: Decodes encoded speech blobs and renders them on an output device
// Package playback turns an encoded speech blob into audible playback that can
// be stopped at any time.
//
// A Controller owns at most one session. Starting while a session is active
// stops it instead of starting another one, so the same call acts as a
// play/stop toggle:
//
//	ctrl, err := playback.NewController(playback.Config{
//		Output: output.NewOto(),
//		OnStateChange: func(s playback.State) {
//			log.Printf("playback: %s", s)
//		},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ctrl.Close()
//
//	ctrl.Start(blob) // playing
//	ctrl.Start(blob) // stopped
//
// Controllers sharing an Arbiter never play at the same time.
package playback
