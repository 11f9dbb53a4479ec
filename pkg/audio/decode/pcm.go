// ABOUTME: PCM audio decoder
// ABOUTME: Decodes headerless 16-bit and 24-bit little-endian PCM to float buffers
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
)

// PCMDecoder decodes interleaved PCM audio
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (Decoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)
	}

	if format.Channels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", format.Channels)
	}

	return &PCMDecoder{
		format: format,
	}, nil
}

// Decode de-interleaves PCM bytes into one float slice per channel.
// The byte count alone determines the number of frames.
func (d *PCMDecoder) Decode(data []byte) (*audio.Buffer, error) {
	frameSize := d.format.FrameSize()
	if len(data)%frameSize != 0 {
		return nil, &DecodeError{
			Reason: fmt.Sprintf("%d bytes is not a whole number of %d-byte frames", len(data), frameSize),
		}
	}

	channels := d.format.Channels
	frames := len(data) / frameSize
	buf := audio.NewBuffer(d.format, frames)

	if d.format.BitDepth == 24 {
		// 24-bit PCM: 3 bytes per sample
		for i := 0; i < frames; i++ {
			for c := 0; c < channels; c++ {
				off := (i*channels + c) * 3
				buf.Channels[c][i] = audio.SampleFrom24Bit([3]byte{data[off], data[off+1], data[off+2]})
			}
		}
		return buf, nil
	}

	// 16-bit PCM: 2 bytes per sample
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			off := (i*channels + c) * 2
			buf.Channels[c][i] = audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(data[off:])))
		}
	}
	return buf, nil
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}
