// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes a complete FLAC stream to a float buffer
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC audio
type FLACDecoder struct{}

// NewFLAC creates a new FLAC decoder
func NewFLAC(format audio.Format) (Decoder, error) {
	if format.Codec != "flac" {
		return nil, fmt.Errorf("invalid codec for FLAC decoder: %s", format.Codec)
	}

	return &FLACDecoder{}, nil
}

// Decode converts FLAC bytes to a float buffer, frame by frame
func (d *FLACDecoder) Decode(data []byte) (*audio.Buffer, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Reason: "invalid flac stream", Err: err}
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bitDepth := int(stream.Info.BitsPerSample)

	out := make([][]float32, channels)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DecodeError{Reason: "flac frame decode failed", Err: err}
		}

		for c := 0; c < channels && c < len(frame.Subframes); c++ {
			for _, s := range frame.Subframes[c].Samples {
				out[c] = append(out[c], audio.SampleFromInt32(s, bitDepth))
			}
		}
	}

	return &audio.Buffer{
		Channels: out,
		Format: audio.Format{
			Codec:      "pcm",
			SampleRate: int(stream.Info.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
	}, nil
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	return nil
}
