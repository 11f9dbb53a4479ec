// ABOUTME: PCM audio encoder
// ABOUTME: Encodes float buffers to interleaved 16-bit or 24-bit PCM bytes
package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	bitDepth int
}

// NewPCM creates a new PCM encoder
func NewPCM(format audio.Format) (Encoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM encoder: %s", format.Codec)
	}

	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)
	}

	return &PCMEncoder{
		bitDepth: format.BitDepth,
	}, nil
}

// Encode interleaves the buffer and packs it as little-endian PCM
func (e *PCMEncoder) Encode(buf *audio.Buffer) ([]byte, error) {
	if e.bitDepth == 24 {
		samples := buf.Interleaved()
		output := make([]byte, len(samples)*3)
		for i, s := range samples {
			v := int32(float64(s) * 8388608.0)
			if v > audio.Max24Bit {
				v = audio.Max24Bit
			} else if v < audio.Min24Bit {
				v = audio.Min24Bit
			}
			output[i*3] = byte(v)
			output[i*3+1] = byte(v >> 8)
			output[i*3+2] = byte(v >> 16)
		}
		return output, nil
	}

	return PCM16(buf.Interleaved()), nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}

// PCM16 packs interleaved float samples as signed 16-bit little-endian
func PCM16(samples []float32) []byte {
	output := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(audio.SampleToInt16(s)))
	}
	return output
}
