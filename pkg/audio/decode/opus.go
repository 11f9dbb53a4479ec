// ABOUTME: Opus audio decoder
// ABOUTME: Decodes a single Opus packet to a float buffer
package decode

import (
	"fmt"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// maxOpusFrame is the largest frame an Opus packet can carry (120ms at 48kHz)
const maxOpusFrame = 5760

// OpusDecoder decodes Opus audio
type OpusDecoder struct {
	decoder *opus.Decoder
	format  audio.Format
}

// NewOpus creates a new Opus decoder
func NewOpus(format audio.Format) (Decoder, error) {
	if format.Codec != "opus" {
		return nil, fmt.Errorf("invalid codec for Opus decoder: %s", format.Codec)
	}

	dec, err := opus.NewDecoder(format.SampleRate, format.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &OpusDecoder{
		decoder: dec,
		format:  format,
	}, nil
}

// Decode converts one Opus packet to a float buffer
func (d *OpusDecoder) Decode(data []byte) (*audio.Buffer, error) {
	pcm := make([]float32, maxOpusFrame*d.format.Channels)

	n, err := d.decoder.DecodeFloat32(data, pcm)
	if err != nil {
		return nil, &DecodeError{Reason: "opus decode failed", Err: err}
	}

	format := audio.Format{
		Codec:      "pcm",
		SampleRate: d.format.SampleRate,
		Channels:   d.format.Channels,
		BitDepth:   16,
	}
	buf := audio.NewBuffer(format, n)
	for i := 0; i < n; i++ {
		for c := 0; c < d.format.Channels; c++ {
			buf.Channels[c][i] = pcm[i*d.format.Channels+c]
		}
	}
	return buf, nil
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	return nil
}
