// ABOUTME: Tests for MP3 decoder
// ABOUTME: Tests MP3 decoder creation and invalid stream handling
package decode

import (
	"errors"
	"testing"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
)

func TestNewMP3(t *testing.T) {
	format := audio.Format{
		Codec:      "mp3",
		SampleRate: 44100,
		Channels:   2,
		BitDepth:   16,
	}

	decoder, err := NewMP3(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if decoder == nil {
		t.Fatal("expected decoder to be created")
	}
}

func TestNewMP3_InvalidCodec(t *testing.T) {
	format := audio.Format{
		Codec:      "opus",
		SampleRate: 44100,
		Channels:   2,
		BitDepth:   16,
	}

	decoder, err := NewMP3(format)
	if err == nil {
		t.Fatal("expected error for invalid codec, got nil")
	}

	if decoder != nil {
		t.Fatal("expected decoder to be nil for invalid codec")
	}

	expectedError := "invalid codec for MP3 decoder: opus"
	if err.Error() != expectedError {
		t.Errorf("expected error %q, got %q", expectedError, err.Error())
	}
}

func TestMP3Decode_EmptyStream(t *testing.T) {
	decoder, err := NewMP3(audio.Format{Codec: "mp3"})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	buf, err := decoder.Decode(nil)
	if err == nil {
		t.Fatal("expected error for empty stream, got nil")
	}
	if buf != nil {
		t.Error("expected nil buffer on error")
	}

	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Errorf("expected *DecodeError, got %T", err)
	}
}
