// ABOUTME: Tests for audio resampler
// ABOUTME: Tests linear interpolation resampling between sample rates
package resample

import (
	"testing"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
)

func TestNew(t *testing.T) {
	r := New(24000, 48000, 1)

	if r == nil {
		t.Fatal("expected resampler to be created")
	}

	if r.inputRate != 24000 {
		t.Errorf("expected inputRate 24000, got %d", r.inputRate)
	}

	if r.outputRate != 48000 {
		t.Errorf("expected outputRate 48000, got %d", r.outputRate)
	}

	if r.ratio != 0.5 {
		t.Errorf("expected ratio 0.5, got %f", r.ratio)
	}
}

func TestResampleUpsampling(t *testing.T) {
	// 44100 -> 48000 (upsampling by factor of ~1.088)
	r := New(44100, 48000, 2)

	// Input: 100 stereo frames, ramp signal
	input := make([]float32, 200)
	for i := range input {
		input[i] = float32(i) / 200
	}

	expectedSize := int(float64(len(input)) * float64(48000) / float64(44100))
	output := make([]float32, expectedSize)

	n := r.Resample(input, output)

	if n == 0 {
		t.Fatal("resampler produced no output")
	}

	// Allow some tolerance due to rounding
	if n < expectedSize-10 || n > expectedSize+10 {
		t.Errorf("expected ~%d samples, got %d", expectedSize, n)
	}
}

func TestResampleDownsampling(t *testing.T) {
	// 48000 -> 44100 (downsampling by factor of ~0.91875)
	r := New(48000, 44100, 2)

	input := make([]float32, 200)
	for i := range input {
		input[i] = float32(i) / 200
	}

	expectedSize := int(float64(len(input)) * float64(44100) / float64(48000))
	output := make([]float32, expectedSize)

	n := r.Resample(input, output)

	if n < expectedSize-10 || n > expectedSize+10 {
		t.Errorf("expected ~%d samples, got %d", expectedSize, n)
	}
}

func TestResampleInterpolates(t *testing.T) {
	// Doubling the rate puts a midpoint between every pair of input frames
	r := New(24000, 48000, 1)

	input := []float32{0, 1, 0}
	output := make([]float32, 6)

	n := r.Resample(input, output)
	if n != 4 {
		t.Fatalf("expected 4 samples, got %d", n)
	}

	want := []float32{0, 0.5, 1, 0.5}
	for i := range want {
		if output[i] != want[i] {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], output[i])
		}
	}
}

func TestResampleEmptyInput(t *testing.T) {
	r := New(24000, 48000, 1)

	if n := r.Resample(nil, make([]float32, 10)); n != 0 {
		t.Errorf("expected 0 samples from empty input, got %d", n)
	}
}

func TestBuffer(t *testing.T) {
	buf := audio.NewBuffer(audio.SpeechFormat, 2400)
	for i := range buf.Channels[0] {
		buf.Channels[0][i] = 0.25
	}

	out := Buffer(buf, 48000)

	if out.Format.SampleRate != 48000 {
		t.Errorf("expected 48000Hz, got %d", out.Format.SampleRate)
	}
	if out.Frames() < 4790 || out.Frames() > 4800 {
		t.Errorf("expected ~4800 frames, got %d", out.Frames())
	}
	for i, s := range out.Channels[0] {
		if s != 0.25 {
			t.Fatalf("frame %d: expected 0.25, got %v", i, s)
		}
	}

	// Source untouched
	if buf.Format.SampleRate != 24000 || buf.Frames() != 2400 {
		t.Error("source buffer was modified")
	}
}

func TestBuffer_SameRate(t *testing.T) {
	buf := audio.NewBuffer(audio.SpeechFormat, 10)

	if out := Buffer(buf, 24000); out != buf {
		t.Error("expected same buffer when rates match")
	}
}
