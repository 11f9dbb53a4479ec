// ABOUTME: Export of spoken replies to disk
// ABOUTME: Decodes a message's audio and writes it as a WAV file
package chat

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Resonate-Protocol/couch-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/couch-go/pkg/audio/encode"
)

// ExportAudio writes m's audio to dir/<id>.wav and returns the path
func ExportAudio(dir string, m Message) (string, error) {
	if !m.HasAudio() {
		return "", fmt.Errorf("message %s has no audio", m.ID)
	}

	buf, err := decode.DecodeSpeech(m.Audio)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	path := filepath.Join(dir, m.ID+".wav")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := encode.WriteWAV(f, buf); err != nil {
		os.Remove(path)
		return "", err
	}

	log.Printf("Saved reply audio: %s (%v)", path, buf.Duration())
	return path, nil
}
