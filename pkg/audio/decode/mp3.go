// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes a complete MP3 stream to a stereo float buffer
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MP3 audio
type MP3Decoder struct{}

// NewMP3 creates a new MP3 decoder
func NewMP3(format audio.Format) (Decoder, error) {
	if format.Codec != "mp3" {
		return nil, fmt.Errorf("invalid codec for MP3 decoder: %s", format.Codec)
	}

	return &MP3Decoder{}, nil
}

// Decode converts MP3 bytes to a float buffer. go-mp3 always produces
// 16-bit little-endian stereo at the stream's own sample rate.
func (d *MP3Decoder) Decode(data []byte) (*audio.Buffer, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Reason: "invalid mp3 stream", Err: err}
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, &DecodeError{Reason: "mp3 decode error", Err: err}
	}

	format := audio.Format{
		Codec:      "pcm",
		SampleRate: decoder.SampleRate(),
		Channels:   2,
		BitDepth:   16,
	}

	// Drop a trailing partial frame rather than failing the whole stream
	pcm = pcm[:len(pcm)-len(pcm)%format.FrameSize()]

	return (&PCMDecoder{format: format}).Decode(pcm)
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return nil
}
