//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"errors"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
)

var errPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio output implementation (stub)
type PortAudio struct {
	volumeControl
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() *PortAudio {
	return &PortAudio{volumeControl: volumeControl{volume: 100}}
}

// Name returns the backend name
func (p *PortAudio) Name() string {
	return "portaudio"
}

// Open always fails in builds without the portaudio tag
func (p *PortAudio) Open(format audio.Format) (Device, error) {
	return nil, &DeviceError{Backend: p.Name(), Op: "open", Err: errPortAudioDisabled}
}

// Close releases resources
func (p *PortAudio) Close() error {
	return nil
}
