// ABOUTME: Tests for the playback controller
// ABOUTME: Covers the toggle state machine, completion handling and teardown
package playback

import (
	"encoding/base64"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
	"github.com/Resonate-Protocol/couch-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/couch-go/pkg/audio/output"
)

// Two samples: 0.0 and -1.0
const blob = "AAAAgA=="

type recorder struct {
	mu       sync.Mutex
	states   []State
	errs     []error
	finished int
}

func (r *recorder) config(out output.Output) Config {
	return Config{
		Output: out,
		OnStateChange: func(s State) {
			r.mu.Lock()
			r.states = append(r.states, s)
			r.mu.Unlock()
		},
		OnError: func(err error) {
			r.mu.Lock()
			r.errs = append(r.errs, err)
			r.mu.Unlock()
		},
		OnFinished: func() {
			r.mu.Lock()
			r.finished++
			r.mu.Unlock()
		},
	}
}

func newTestController(t *testing.T) (*Controller, *fakeOutput, *recorder) {
	t.Helper()

	out := &fakeOutput{}
	rec := &recorder{}
	ctrl, err := NewController(rec.config(out))
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return ctrl, out, rec
}

func TestNewController_RequiresOutput(t *testing.T) {
	if _, err := NewController(Config{}); err == nil {
		t.Fatal("expected error without output")
	}
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || Playing.String() != "playing" {
		t.Errorf("unexpected names: %s, %s", Idle, Playing)
	}
	if State(7).String() != "State(7)" {
		t.Errorf("unexpected name for unknown state: %s", State(7))
	}
}

func TestStart_PlaysDecodedAudio(t *testing.T) {
	ctrl, out, rec := newTestController(t)

	if err := ctrl.Start(blob); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if ctrl.State() != Playing {
		t.Fatalf("expected Playing, got %s", ctrl.State())
	}
	if out.opened() != 1 {
		t.Fatalf("expected 1 device, got %d", out.opened())
	}

	dev := out.device(0)
	if dev.format.SampleRate != 24000 || dev.format.Channels != 1 {
		t.Errorf("expected 24kHz mono device, got %+v", dev.format)
	}
	samples := dev.buf.Channels[0]
	if len(samples) != 2 || samples[0] != 0.0 || samples[1] != -1.0 {
		t.Errorf("expected [0 -1], got %v", samples)
	}
	if len(rec.states) != 1 || rec.states[0] != Playing {
		t.Errorf("expected [playing], got %v", rec.states)
	}
}

func TestStart_EmptyBlobIsNoop(t *testing.T) {
	ctrl, out, rec := newTestController(t)

	if err := ctrl.Start(""); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if ctrl.State() != Idle {
		t.Errorf("expected Idle, got %s", ctrl.State())
	}
	if out.opened() != 0 {
		t.Errorf("expected no device, got %d", out.opened())
	}
	if len(rec.states) != 0 {
		t.Errorf("expected no state changes, got %v", rec.states)
	}
}

func TestStart_WhilePlayingToggles(t *testing.T) {
	ctrl, out, rec := newTestController(t)

	ctrl.Start(blob)
	if err := ctrl.Start(blob); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}

	if ctrl.State() != Idle {
		t.Errorf("expected Idle after toggle, got %s", ctrl.State())
	}
	if out.opened() != 1 {
		t.Errorf("toggle must not open a new device, got %d", out.opened())
	}
	if out.live() != 0 {
		t.Errorf("expected device released, %d still open", out.live())
	}
	if len(rec.states) != 2 || rec.states[1] != Idle {
		t.Errorf("expected [playing idle], got %v", rec.states)
	}
}

func TestStop_Idempotent(t *testing.T) {
	ctrl, out, rec := newTestController(t)

	ctrl.Stop() // idle: no-op
	ctrl.Start(blob)
	ctrl.Stop()
	ctrl.Stop()

	if ctrl.State() != Idle {
		t.Errorf("expected Idle, got %s", ctrl.State())
	}
	if out.live() != 0 {
		t.Errorf("expected device released, %d still open", out.live())
	}
	if len(rec.states) != 2 {
		t.Errorf("expected [playing idle], got %v", rec.states)
	}
}

func TestNaturalCompletion(t *testing.T) {
	ctrl, out, rec := newTestController(t)

	ctrl.Start(blob)
	out.device(0).complete()

	if ctrl.State() != Idle {
		t.Errorf("expected Idle, got %s", ctrl.State())
	}
	if !out.device(0).isClosed() {
		t.Error("expected device closed on completion")
	}
	if rec.finished != 1 {
		t.Errorf("expected 1 finish, got %d", rec.finished)
	}

	// A duplicate completion changes nothing
	out.device(0).complete()
	if rec.finished != 1 {
		t.Errorf("completion fired twice: %d", rec.finished)
	}
}

func TestCompletionAfterStopIgnored(t *testing.T) {
	ctrl, out, rec := newTestController(t)

	ctrl.Start(blob)
	ctrl.Stop()
	out.device(0).complete()

	if rec.finished != 0 {
		t.Errorf("expected stale completion ignored, got %d", rec.finished)
	}
	if len(rec.states) != 2 {
		t.Errorf("expected [playing idle], got %v", rec.states)
	}
}

func TestStaleCompletionDoesNotEndNewSession(t *testing.T) {
	ctrl, out, rec := newTestController(t)

	ctrl.Start(blob)
	ctrl.Stop()
	ctrl.Start(blob)

	out.device(0).complete()

	if ctrl.State() != Playing {
		t.Errorf("old completion ended the new session")
	}
	if out.device(1).isClosed() {
		t.Error("new session's device was closed")
	}
	if rec.finished != 0 {
		t.Errorf("expected no finish, got %d", rec.finished)
	}
}

func TestStart_DecodeError(t *testing.T) {
	ctrl, out, rec := newTestController(t)

	err := ctrl.Start("AAA") // malformed base64

	var derr *decode.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *decode.DecodeError, got %v", err)
	}
	if ctrl.State() != Idle {
		t.Errorf("expected Idle, got %s", ctrl.State())
	}
	if out.opened() != 1 || out.live() != 0 {
		t.Errorf("expected opened device released, opened=%d live=%d", out.opened(), out.live())
	}
	if len(rec.errs) != 1 {
		t.Errorf("expected 1 reported error, got %d", len(rec.errs))
	}
	if len(rec.states) != 0 {
		t.Errorf("expected no state changes, got %v", rec.states)
	}
}

func TestStart_OddByteCount(t *testing.T) {
	ctrl, _, _ := newTestController(t)

	err := ctrl.Start("AAAA") // 3 bytes

	var derr *decode.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *decode.DecodeError, got %v", err)
	}
	if ctrl.State() != Idle {
		t.Errorf("expected Idle, got %s", ctrl.State())
	}
}

func TestStart_DeviceError(t *testing.T) {
	ctrl, out, rec := newTestController(t)
	out.openErr = errors.New("busy")

	err := ctrl.Start(blob)

	var derr *output.DeviceError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *output.DeviceError, got %v", err)
	}
	if ctrl.State() != Idle {
		t.Errorf("expected Idle, got %s", ctrl.State())
	}
	if len(rec.errs) != 1 {
		t.Errorf("expected 1 reported error, got %d", len(rec.errs))
	}

	// Recovers once the device is available
	out.openErr = nil
	if err := ctrl.Start(blob); err != nil {
		t.Fatalf("Start after failure: %v", err)
	}
	if ctrl.State() != Playing {
		t.Errorf("expected Playing, got %s", ctrl.State())
	}
}

func TestStart_PlayError(t *testing.T) {
	ctrl, out, _ := newTestController(t)
	out.playErr = errors.New("underrun")

	if err := ctrl.Start(blob); err == nil {
		t.Fatal("expected error")
	}
	if ctrl.State() != Idle || out.live() != 0 {
		t.Errorf("expected Idle with device released, state=%s live=%d", ctrl.State(), out.live())
	}
}

func TestClose_ReleasesAndRejects(t *testing.T) {
	ctrl, out, rec := newTestController(t)

	ctrl.Start(blob)
	if err := ctrl.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if out.live() != 0 {
		t.Errorf("expected device released, %d still open", out.live())
	}

	// A completion racing with teardown is dropped
	out.device(0).complete()
	if rec.finished != 0 {
		t.Errorf("completion after Close: %d", rec.finished)
	}

	if err := ctrl.Start(blob); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if out.opened() != 1 {
		t.Errorf("closed controller opened a device")
	}
}

func TestRepeatedPlaysDoNotLeak(t *testing.T) {
	ctrl, out, _ := newTestController(t)

	for i := 0; i < 50; i++ {
		ctrl.Start(blob)
		if i%2 == 0 {
			ctrl.Stop()
		} else {
			out.device(i).complete()
		}
	}

	if out.opened() != 50 {
		t.Errorf("expected 50 devices, got %d", out.opened())
	}
	if out.live() != 0 {
		t.Errorf("leaked %d devices", out.live())
	}
}

func TestNullOutputEndToEnd(t *testing.T) {
	finished := make(chan struct{})
	ctrl, err := NewController(Config{
		Output:     output.NewNull(),
		OnFinished: func() { close(finished) },
	})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	defer ctrl.Close()

	if err := ctrl.Start(blob); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("playback never finished")
	}
	if ctrl.State() != Idle {
		t.Errorf("expected Idle, got %s", ctrl.State())
	}
}

func TestConcurrentStartStop(t *testing.T) {
	ctrl, out, _ := newTestController(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ctrl.Start(blob)
				ctrl.Stop()
			}
		}()
	}
	wg.Wait()

	ctrl.Close()
	if out.live() != 0 {
		t.Errorf("leaked %d devices", out.live())
	}
}

func TestStart_DecodesContainerCodec(t *testing.T) {
	data, err := os.ReadFile("testdata/tone.flac")
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}

	format := audio.SpeechFormat
	format.Codec = "flac"
	out := &fakeOutput{}
	ctrl, err := NewController(Config{Output: out, Format: format})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}

	if err := ctrl.Start(base64.StdEncoding.EncodeToString(data)); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if ctrl.State() != Playing {
		t.Fatalf("expected Playing, got %s", ctrl.State())
	}

	dev := out.device(0)
	if dev.format.Codec != "pcm" || dev.format.SampleRate != 24000 || dev.format.Channels != 1 {
		t.Errorf("expected 24kHz mono PCM device, got %+v", dev.format)
	}
	if dev.buf.Frames() != 16 || dev.buf.Channels[0][0] != -0.5 {
		t.Errorf("unexpected decoded stream: %d frames", dev.buf.Frames())
	}

	dev.complete()
	if ctrl.State() != Idle || out.live() != 0 {
		t.Errorf("expected idle with no live devices, got %s and %d", ctrl.State(), out.live())
	}
}

func TestStart_ContainerDecodeErrorReleasesDevice(t *testing.T) {
	format := audio.SpeechFormat
	format.Codec = "mp3"
	out := &fakeOutput{}
	ctrl, _ := NewController(Config{Output: out, Format: format})

	err := ctrl.Start(base64.StdEncoding.EncodeToString([]byte("not an mp3 stream")))

	var derr *decode.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *decode.DecodeError, got %v", err)
	}
	if ctrl.State() != Idle || out.live() != 0 {
		t.Errorf("expected idle with no live devices, got %s and %d", ctrl.State(), out.live())
	}
}

func TestNewController_FillsFormat(t *testing.T) {
	ctrl, _ := NewController(Config{Output: &fakeOutput{}, Format: audio.Format{Codec: "flac"}})

	got := ctrl.config.Format
	if got.Codec != "flac" || got.SampleRate != 24000 || got.Channels != 1 || got.BitDepth != 16 {
		t.Errorf("expected speech defaults around the flac codec, got %+v", got)
	}
}
