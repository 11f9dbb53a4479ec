// ABOUTME: Oto-based audio output implementation
// ABOUTME: One process-wide oto context with a fresh oto.Player per playback session
package output

import (
	"bytes"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
	"github.com/Resonate-Protocol/couch-go/pkg/audio/encode"
	"github.com/ebitengine/oto/v3"
)

// otoPollInterval is how often a device checks whether its player drained
const otoPollInterval = 20 * time.Millisecond

// oto allows only one context per process, so it is shared by every Oto output
var (
	otoMu       sync.Mutex
	otoCtx      *oto.Context
	otoRate     int
	otoChannels int
)

// Oto output implementation using oto library
type Oto struct {
	volumeControl
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	return &Oto{volumeControl: volumeControl{volume: 100}}
}

// Name returns the backend name
func (o *Oto) Name() string {
	return "oto"
}

// Open returns a device bound to the shared oto context, creating the
// context with format on first use
func (o *Oto) Open(format audio.Format) (Device, error) {
	ctx, rate, channels, err := sharedOtoContext(format)
	if err != nil {
		return nil, &DeviceError{Backend: o.Name(), Op: "open", Err: err}
	}

	return &otoDevice{
		output:   o,
		ctx:      ctx,
		rate:     rate,
		channels: channels,
		stop:     make(chan struct{}),
	}, nil
}

// Close suspends the shared context; it is resumed by the next Open
func (o *Oto) Close() error {
	otoMu.Lock()
	defer otoMu.Unlock()
	if otoCtx != nil {
		if err := otoCtx.Suspend(); err != nil {
			return fmt.Errorf("failed to suspend oto context: %w", err)
		}
	}
	return nil
}

func sharedOtoContext(format audio.Format) (*oto.Context, int, int, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoRate != format.SampleRate || otoChannels != format.Channels {
			log.Printf("oto context runs at %dHz %dch, converting %dHz %dch audio",
				otoRate, otoChannels, format.SampleRate, format.Channels)
		}
		if err := otoCtx.Resume(); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to resume oto context: %w", err)
		}
		return otoCtx, otoRate, otoChannels, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	otoCtx = ctx
	otoRate = format.SampleRate
	otoChannels = format.Channels

	log.Printf("Audio output initialized: %dHz, %d channels", otoRate, otoChannels)

	return otoCtx, otoRate, otoChannels, nil
}

// otoDevice wraps one oto.Player
type otoDevice struct {
	output   *Oto
	ctx      *oto.Context
	rate     int
	channels int

	mu        sync.Mutex
	player    *oto.Player
	stop      chan struct{}
	closeOnce sync.Once
}

// Play converts buf to the context's format and starts a player on it
func (d *otoDevice) Play(buf *audio.Buffer, done func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player != nil {
		return &DeviceError{Backend: d.output.Name(), Op: "play", Err: fmt.Errorf("device already playing")}
	}
	select {
	case <-d.stop:
		return &DeviceError{Backend: d.output.Name(), Op: "play", Err: fmt.Errorf("device closed")}
	default:
	}

	buf = conform(buf, d.rate, d.channels)
	data := encode.PCM16(d.output.scaled(buf.Interleaved()))

	d.player = d.ctx.NewPlayer(bytes.NewReader(data))
	d.player.Play()

	go d.watch(d.player, done)

	return nil
}

// watch reports completion once the player has drained its reader
func (d *otoDevice) watch(player *oto.Player, done func()) {
	ticker := time.NewTicker(otoPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			if player.IsPlaying() {
				continue
			}
			if err := player.Err(); err != nil {
				log.Printf("oto player error: %v", err)
			}
			select {
			case <-d.stop:
			default:
				if done != nil {
					done()
				}
			}
			return
		}
	}
}

// Close halts the player immediately
func (d *otoDevice) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.stop)

		d.mu.Lock()
		defer d.mu.Unlock()
		if d.player != nil {
			d.player.Pause()
			err = d.player.Close()
			d.player = nil
		}
	})
	return err
}
