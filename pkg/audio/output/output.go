// ABOUTME: Audio output interface definition
// ABOUTME: Common interfaces for playback backends and per-session devices
package output

import (
	"fmt"
	"strings"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
	"github.com/Resonate-Protocol/couch-go/pkg/audio/resample"
)

// Output allocates playback devices from one audio backend
type Output interface {
	// Open allocates an exclusive device handle for format.
	// Failures are reported as *DeviceError.
	Open(format audio.Format) (Device, error)

	// Name returns the backend name
	Name() string

	// Close releases backend-wide resources
	Close() error
}

// Device is one allocated output device, owned by a single playback session
type Device interface {
	// Play starts rendering buf and returns immediately. done is called at
	// most once, from an audio goroutine, when rendering finishes naturally.
	Play(buf *audio.Buffer, done func()) error

	// Close halts output immediately and releases the device. It does not
	// wait for the hardware to drain and is safe to call more than once.
	Close() error
}

// VolumeControl is implemented by outputs with software gain
type VolumeControl interface {
	SetVolume(volume int)
	SetMuted(muted bool)
	GetVolume() int
	IsMuted() bool
}

// DeviceError reports a device that failed to allocate or accept a buffer
type DeviceError struct {
	Backend string
	Op      string
	Err     error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("output %s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Backends lists the names accepted by New
var Backends = []string{"oto", "malgo", "portaudio", "null"}

// New creates an output for the named backend
func New(name string) (Output, error) {
	switch strings.ToLower(name) {
	case "", "oto":
		return NewOto(), nil
	case "malgo":
		return NewMalgo(), nil
	case "portaudio":
		return NewPortAudio(), nil
	case "null", "none":
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q (supported: %s)", name, strings.Join(Backends, ", "))
	}
}

// conform resamples and remixes buf to a device's rate and channel count
func conform(buf *audio.Buffer, rate, channels int) *audio.Buffer {
	return remix(resample.Buffer(buf, rate), channels)
}

// remix maps buf onto the given channel count. Extra output channels repeat
// the last source channel; surplus source channels are dropped.
func remix(buf *audio.Buffer, channels int) *audio.Buffer {
	if len(buf.Channels) == channels || len(buf.Channels) == 0 {
		return buf
	}

	format := buf.Format
	format.Channels = channels
	out := &audio.Buffer{
		Channels: make([][]float32, channels),
		Format:   format,
	}
	for c := range out.Channels {
		src := c
		if src >= len(buf.Channels) {
			src = len(buf.Channels) - 1
		}
		out.Channels[c] = buf.Channels[src]
	}
	return out
}
