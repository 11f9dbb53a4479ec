// ABOUTME: Playback controller state machine
// ABOUTME: Owns the device and buffer of the active session and releases them on stop
package playback

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
	"github.com/Resonate-Protocol/couch-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/couch-go/pkg/audio/output"
)

// ErrClosed is returned by Start after Close
var ErrClosed = errors.New("playback: controller closed")

// State is the observable playback state
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config holds controller configuration
type Config struct {
	// Output allocates one device per session (required)
	Output output.Output

	// Format describes the encoded blobs (default: audio.SpeechFormat).
	// Codec selects the decoder; for containerised codecs the rate and
	// channel count are those of the device, which converts the stream.
	Format audio.Format

	// Arbiter, when set, stops other controllers before this one plays
	Arbiter *Arbiter

	// OnStateChange is called when playback state changes
	OnStateChange func(State)

	// OnError is called when a session fails to start
	OnError func(error)

	// OnFinished is called when a session reaches its natural end
	OnFinished func()
}

// session is one playback attempt. device and buffer are set once the
// device has been handed the decoded audio.
type session struct {
	device output.Device
	buffer *audio.Buffer
}

// Controller plays encoded blobs, one session at a time.
// Callbacks run on the calling goroutine or an audio goroutine and must not
// call back into the controller synchronously.
type Controller struct {
	config Config

	mu      sync.Mutex
	current *session
	closed  bool

	notifyMu sync.Mutex
	reported State
}

// NewController creates a controller with the given configuration
func NewController(config Config) (*Controller, error) {
	if config.Output == nil {
		return nil, fmt.Errorf("playback: output is required")
	}
	if config.Format.Codec == "" {
		config.Format.Codec = audio.SpeechFormat.Codec
	}
	if config.Format.SampleRate == 0 {
		config.Format.SampleRate = audio.SpeechFormat.SampleRate
	}
	if config.Format.Channels == 0 {
		config.Format.Channels = audio.SpeechFormat.Channels
	}
	if config.Format.BitDepth == 0 {
		config.Format.BitDepth = audio.SpeechFormat.BitDepth
	}

	return &Controller{config: config}, nil
}

// State returns the current playback state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		return Playing
	}
	return Idle
}

// Start plays blob. While a session is active it stops that session instead
// and returns without starting a new one. An empty blob is ignored.
// Decode and device failures are reported through OnError and returned;
// the controller stays idle.
func (c *Controller) Start(blob string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.current != nil {
		c.mu.Unlock()
		c.Stop()
		return nil
	}
	if blob == "" {
		c.mu.Unlock()
		return nil
	}

	s := &session{}
	c.current = s
	var prev *Controller
	if c.config.Arbiter != nil {
		prev = c.config.Arbiter.claim(c)
	}
	c.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}

	dev, err := c.config.Output.Open(c.deviceFormat())
	if err != nil {
		return c.fail(s, nil, err)
	}

	buf, err := decode.DecodeBase64(blob, c.config.Format)
	if err != nil {
		return c.fail(s, dev, err)
	}

	c.mu.Lock()
	if c.current != s {
		// Stopped while opening
		idle := c.current == nil
		c.mu.Unlock()
		dev.Close()
		if idle && c.config.Arbiter != nil {
			c.config.Arbiter.release(c)
		}
		return nil
	}
	s.device = dev
	s.buffer = buf
	if err := dev.Play(buf, func() { c.finish(s) }); err != nil {
		c.mu.Unlock()
		return c.fail(s, dev, err)
	}
	c.mu.Unlock()

	log.Printf("Playback started: %d frames (%v) on %s", buf.Frames(), buf.Duration(), c.config.Output.Name())
	c.emit()
	return nil
}

// Stop halts the active session and releases its device. It returns
// immediately and is a no-op when idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	s := c.current
	c.current = nil
	c.mu.Unlock()

	if s == nil {
		return
	}

	c.release(s)
	log.Printf("Playback stopped")
	c.emit()
}

// Close stops playback and rejects any later Start
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.Stop()
	if c.config.Arbiter != nil {
		c.config.Arbiter.release(c)
	}
	return nil
}

// finish handles natural completion of s. Completions for a session that
// is no longer current are ignored.
func (c *Controller) finish(s *session) {
	c.mu.Lock()
	if c.current != s {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.mu.Unlock()

	c.release(s)
	log.Printf("Playback finished")

	if c.config.OnFinished != nil {
		c.config.OnFinished()
	}
	c.emit()
}

// fail abandons s after a start failure, closing dev if it was opened
func (c *Controller) fail(s *session, dev output.Device, err error) error {
	c.mu.Lock()
	current := c.current == s
	if current {
		c.current = nil
	}
	c.mu.Unlock()

	if dev != nil {
		dev.Close()
	}
	// A Stop that already took s released the arbiter itself
	if current && c.config.Arbiter != nil {
		c.config.Arbiter.release(c)
	}
	c.report(err)
	return err
}

// deviceFormat is the PCM format devices are opened with
func (c *Controller) deviceFormat() audio.Format {
	f := c.config.Format
	f.Codec = "pcm"
	return f
}

func (c *Controller) release(s *session) {
	if s.device != nil {
		if err := s.device.Close(); err != nil {
			log.Printf("Failed to close output device: %v", err)
		}
		s.device = nil
	}
	s.buffer = nil

	if c.config.Arbiter != nil {
		c.config.Arbiter.release(c)
	}
}

func (c *Controller) report(err error) {
	log.Printf("Playback error: %v", err)
	if c.config.OnError != nil {
		c.config.OnError(err)
	}
}

// emit reports the current state if it differs from the last one reported
func (c *Controller) emit() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	state := c.State()
	if state == c.reported {
		return
	}
	c.reported = state

	if c.config.OnStateChange != nil {
		c.config.OnStateChange(state)
	}
}
