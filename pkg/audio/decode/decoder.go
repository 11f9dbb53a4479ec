// ABOUTME: Decoder interface definition
// ABOUTME: Codec selection and decoding of base64 encoded audio blobs
package decode

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
)

// Decoder decodes audio in various formats to per-channel float buffers
type Decoder interface {
	// Decode converts encoded audio data to a decoded buffer.
	// Implementations must not modify data.
	Decode(data []byte) (*audio.Buffer, error)

	// Close releases decoder resources
	Close() error
}

// New creates a decoder for the codec named in format
func New(format audio.Format) (Decoder, error) {
	switch format.Codec {
	case "pcm":
		return NewPCM(format)
	case "opus":
		return NewOpus(format)
	case "flac":
		return NewFLAC(format)
	case "mp3":
		return NewMP3(format)
	default:
		return nil, fmt.Errorf("unsupported codec: %s", format.Codec)
	}
}

// DecodeBase64 decodes a base64 audio blob with the decoder for format's
// codec. ASCII whitespace inside the blob is ignored and padding is optional.
func DecodeBase64(blob string, format audio.Format) (*audio.Buffer, error) {
	dec, err := New(format)
	if err != nil {
		return nil, &DecodeError{Reason: "unsupported format", Err: err}
	}
	defer dec.Close()

	raw, err := decodeBase64(stripSpace(blob))
	if err != nil {
		return nil, &DecodeError{Reason: "malformed base64", Err: err}
	}

	return dec.Decode(raw)
}

// DecodeSpeech decodes a speech blob using audio.SpeechFormat
func DecodeSpeech(blob string) (*audio.Buffer, error) {
	return DecodeBase64(blob, audio.SpeechFormat)
}

func decodeBase64(s string) ([]byte, error) {
	if len(s)%4 != 0 {
		return base64.RawStdEncoding.DecodeString(s)
	}
	return base64.StdEncoding.DecodeString(s)
}

func stripSpace(s string) string {
	if strings.IndexFunc(s, unicode.IsSpace) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
