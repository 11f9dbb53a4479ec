//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Cross-platform audio output using PortAudio, one stream per session
package output

import (
	"fmt"
	"sync"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

// PortAudio output implementation
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

// Open initializes PortAudio and opens a default output stream.
// Each device holds its own Initialize/Terminate pair.
func (p *PortAudio) Open(format audio.Format) (Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, &DeviceError{Backend: p.Name(), Op: "open", Err: fmt.Errorf("failed to initialize portaudio: %w", err)}
	}

	d := &portAudioDevice{
		output:   p,
		rate:     format.SampleRate,
		channels: format.Channels,
	}

	stream, err := portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), 0, func(out []float32) {
		if _, finished := d.cursor.read(out); finished != nil {
			go finished()
		}
	})
	if err != nil {
		portaudio.Terminate()
		return nil, &DeviceError{Backend: p.Name(), Op: "open", Err: fmt.Errorf("failed to open stream: %w", err)}
	}

	d.stream = stream
	return d, nil
}

// Close is a no-op; devices terminate PortAudio themselves
func (p *PortAudio) Close() error {
	return nil
}

type portAudioDevice struct {
	output    *PortAudio
	stream    *portaudio.Stream
	rate      int
	channels  int
	cursor    cursor
	closeOnce sync.Once
}

// Play binds buf to the stream and starts it
func (d *portAudioDevice) Play(buf *audio.Buffer, done func()) error {
	buf = conform(buf, d.rate, d.channels)
	d.cursor.load(d.output.scaled(buf.Interleaved()), done)

	if err := d.stream.Start(); err != nil {
		return &DeviceError{Backend: d.output.Name(), Op: "play", Err: err}
	}
	return nil
}

// Close aborts the stream without draining and releases PortAudio
func (d *portAudioDevice) Close() error {
	var err error
	d.closeOnce.Do(func() {
		d.cursor.stop()
		if abortErr := d.stream.Abort(); abortErr != nil {
			err = abortErr
		}
		if closeErr := d.stream.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if termErr := portaudio.Terminate(); termErr != nil && err == nil {
			err = termErr
		}
	})
	return err
}
