// ABOUTME: WAV file encoder
// ABOUTME: Writes decoded buffers as 16-bit PCM WAV files via go-audio
package encode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/couch-go/pkg/audio"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag
const wavFormatPCM = 1

// WriteWAV writes buf to w as a 16-bit PCM WAV stream
func WriteWAV(w io.WriteSeeker, buf *audio.Buffer) error {
	channels := len(buf.Channels)
	if channels == 0 {
		return fmt.Errorf("cannot write WAV with no channels")
	}

	enc := wav.NewEncoder(w, buf.Format.SampleRate, 16, channels, wavFormatPCM)

	samples := buf.Interleaved()
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(audio.SampleToInt16(s))
	}

	intBuf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  buf.Format.SampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(intBuf); err != nil {
		return fmt.Errorf("failed to write WAV samples: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}
