// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats and decoded per-channel float buffers
package audio

import "time"

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23

	// int16Scale maps a signed 16-bit sample onto [-1.0, 1.0)
	int16Scale = 32768.0
	int24Scale = 8388608.0
)

// SpeechFormat is the framing of synthesized speech returned by the
// generation API: headerless PCM16 little-endian, mono, 24kHz.
var SpeechFormat = Format{
	Codec:      "pcm",
	SampleRate: 24000,
	Channels:   1,
	BitDepth:   16,
}

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// FrameSize returns the number of bytes in one interleaved frame.
func (f Format) FrameSize() int {
	return f.Channels * (f.BitDepth / 8)
}

// Buffer represents decoded audio as de-interleaved, normalized float
// samples. Channels[c][i] is frame i of channel c.
type Buffer struct {
	Channels [][]float32
	Format   Format
}

// NewBuffer allocates a zeroed buffer with the given frame count.
func NewBuffer(format Format, frames int) *Buffer {
	channels := make([][]float32, format.Channels)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}
	return &Buffer{
		Channels: channels,
		Format:   format,
	}
}

// Frames returns the number of frames held by the buffer
func (b *Buffer) Frames() int {
	if b == nil || len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playback length at the buffer's sample rate
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.Format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.Format.SampleRate)
}

// Interleaved returns the samples in frame order (L,R,L,R,...)
func (b *Buffer) Interleaved() []float32 {
	frames := b.Frames()
	channels := len(b.Channels)
	out := make([]float32, frames*channels)
	for c, samples := range b.Channels {
		for i, s := range samples {
			out[i*channels+c] = s
		}
	}
	return out
}

// SampleFromInt16 converts a signed 16-bit sample to a float in [-1.0, 1.0)
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / int16Scale
}

// SampleToInt16 converts a float sample to int16, clipping out-of-range input
func SampleToInt16(sample float32) int16 {
	scaled := float64(sample) * int16Scale
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}

// SampleFrom24Bit converts 24-bit packed bytes (little-endian) to a float
func SampleFrom24Bit(b [3]byte) float32 {
	// Reconstruct 24-bit value and sign-extend to 32-bit
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return float32(val) / int24Scale
}

// SampleFromInt32 converts an integer sample of the given bit depth to a float
func SampleFromInt32(sample int32, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		return 0
	}
	return float32(float64(sample) / float64(int64(1)<<(bitDepth-1)))
}
