// ABOUTME: Silent output that renders in real time without hardware
// ABOUTME: Used for headless runs and as the device in tests
package output

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
)

// Null output discards audio but keeps device timing: a device reports
// completion after the buffer's playback duration has elapsed
type Null struct {
	volumeControl

	// Speed scales rendering time; 2 renders twice as fast. Zero means 1.
	Speed float64

	open atomic.Int64
}

// NewNull creates a new Null output
func NewNull() *Null {
	return &Null{volumeControl: volumeControl{volume: 100}}
}

// Name returns the backend name
func (n *Null) Name() string {
	return "null"
}

// Open allocates a silent device
func (n *Null) Open(format audio.Format) (Device, error) {
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, &DeviceError{Backend: n.Name(), Op: "open", Err: fmt.Errorf("unsupported format %dHz %dch", format.SampleRate, format.Channels)}
	}
	n.open.Add(1)
	return &nullDevice{output: n}, nil
}

// OpenDevices returns the number of devices opened and not yet closed
func (n *Null) OpenDevices() int {
	return int(n.open.Load())
}

// Close releases resources
func (n *Null) Close() error {
	return nil
}

type nullDevice struct {
	output *Null

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// Play schedules completion after the buffer's duration
func (d *nullDevice) Play(buf *audio.Buffer, done func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return &DeviceError{Backend: d.output.Name(), Op: "play", Err: fmt.Errorf("device closed")}
	}
	if d.timer != nil {
		return &DeviceError{Backend: d.output.Name(), Op: "play", Err: fmt.Errorf("device already playing")}
	}

	length := buf.Duration()
	if d.output.Speed > 0 {
		length = time.Duration(float64(length) / d.output.Speed)
	}

	d.timer = time.AfterFunc(length, func() {
		d.mu.Lock()
		closed := d.closed
		d.mu.Unlock()
		if !closed && done != nil {
			done()
		}
	})
	return nil
}

// Close cancels any pending completion
func (d *nullDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.output.open.Add(-1)
	return nil
}
