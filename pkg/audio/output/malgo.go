// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Uses miniaudio via malgo with one playback device per session
package output

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
	"github.com/gen2brain/malgo"
)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	volumeControl

	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
}

// NewMalgo creates a new Malgo output
func NewMalgo() *Malgo {
	return &Malgo{volumeControl: volumeControl{volume: 100}}
}

// Name returns the backend name
func (m *Malgo) Name() string {
	return "malgo"
}

// Open initializes a playback device with the given format. The device is
// created stopped and starts rendering on Play.
func (m *Malgo) Open(format audio.Format) (Device, error) {
	ctx, err := m.context()
	if err != nil {
		return nil, &DeviceError{Backend: m.Name(), Op: "open", Err: err}
	}

	d := &malgoDevice{
		output:   m,
		rate:     format.SampleRate,
		channels: format.Channels,
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(format.Channels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			d.dataCallback(pOutputSample, frameCount)
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return nil, &DeviceError{Backend: m.Name(), Op: "open", Err: fmt.Errorf("failed to initialize playback device: %w", err)}
	}
	d.device = device

	log.Printf("Audio device initialized: %dHz, %d channels (malgo/F32)", format.SampleRate, format.Channels)

	return d, nil
}

// Close releases the malgo context
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}

func (m *Malgo) context() (*malgo.AllocatedContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}
	return m.malgoCtx, nil
}

// malgoDevice owns one miniaudio device
type malgoDevice struct {
	output   *Malgo
	device   *malgo.Device
	rate     int
	channels int
	cursor   cursor

	closeOnce sync.Once
}

// Play binds buf to the device and starts it
func (d *malgoDevice) Play(buf *audio.Buffer, done func()) error {
	buf = conform(buf, d.rate, d.channels)
	d.cursor.load(d.output.scaled(buf.Interleaved()), done)

	if err := d.device.Start(); err != nil {
		return &DeviceError{Backend: d.output.Name(), Op: "play", Err: fmt.Errorf("failed to start device: %w", err)}
	}
	return nil
}

// dataCallback is called by malgo to fill the audio output buffer
func (d *malgoDevice) dataCallback(pOutput []byte, frameCount uint32) {
	samples := make([]float32, int(frameCount)*d.channels)

	_, finished := d.cursor.read(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(pOutput[i*4:], math.Float32bits(s))
	}

	// The device cannot be stopped from inside its own callback
	if finished != nil {
		go finished()
	}
}

// Close stops and uninitializes the device
func (d *malgoDevice) Close() error {
	d.closeOnce.Do(func() {
		d.cursor.stop()
		if err := d.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		d.device.Uninit()
	})
	return nil
}
