// ABOUTME: In-memory output used by playback tests
// ABOUTME: Records device allocation and lets tests fire completions by hand
package playback

import (
	"errors"
	"sync"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
	"github.com/Resonate-Protocol/couch-go/pkg/audio/output"
)

type fakeOutput struct {
	mu      sync.Mutex
	devices []*fakeDevice
	openErr error
	playErr error

	// onOpen runs before each device is allocated
	onOpen func()
}

func (o *fakeOutput) Open(format audio.Format) (output.Device, error) {
	if o.onOpen != nil {
		o.onOpen()
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.openErr != nil {
		return nil, &output.DeviceError{Backend: "fake", Op: "open", Err: o.openErr}
	}
	d := &fakeDevice{format: format, playErr: o.playErr}
	o.devices = append(o.devices, d)
	return d, nil
}

func (o *fakeOutput) Name() string { return "fake" }
func (o *fakeOutput) Close() error { return nil }

func (o *fakeOutput) opened() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.devices)
}

func (o *fakeOutput) device(i int) *fakeDevice {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.devices[i]
}

// live counts devices that were opened and not closed
func (o *fakeOutput) live() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := 0
	for _, d := range o.devices {
		if !d.isClosed() {
			n++
		}
	}
	return n
}

type fakeDevice struct {
	mu      sync.Mutex
	format  audio.Format
	buf     *audio.Buffer
	done    func()
	closed  bool
	playErr error
}

func (d *fakeDevice) Play(buf *audio.Buffer, done func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return errors.New("device closed")
	}
	if d.playErr != nil {
		return &output.DeviceError{Backend: "fake", Op: "play", Err: d.playErr}
	}
	d.buf = buf
	d.done = done
	return nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDevice) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// complete fires the completion handed to Play, even after Close, to
// simulate a callback racing with teardown
func (d *fakeDevice) complete() {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()

	if done != nil {
		done()
	}
}
