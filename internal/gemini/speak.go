// ABOUTME: Speech synthesis of analyst replies
// ABOUTME: Requests PCM16 audio from the TTS model and returns it base64 encoded
package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Resonate-Protocol/couch-go/internal/prompt"
	"google.golang.org/genai"
)

// Speaker renders text as an encoded audio blob
type Speaker interface {
	Speak(ctx context.Context, text, voice string) (string, error)
}

// Speak returns base64 PCM16 24 kHz mono speech for text in voice
func (c *Client) Speak(ctx context.Context, text, voice string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("speech: nothing to say")
	}
	if voice == "" {
		voice = prompt.DefaultVoice
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	resp, err := c.Generate(ctx, c.config.SpeechModel, []*genai.Part{genai.NewPartFromText(text)}, config)
	if err != nil {
		return "", fmt.Errorf("speech failed: %w", err)
	}

	pcm := responseAudio(resp)
	if len(pcm) == 0 {
		return "", ErrNoAudio
	}
	return base64.StdEncoding.EncodeToString(pcm), nil
}

// liveSpeechConfig is the Live setup's generation config for voice
func liveSpeechConfig(voice string) GenerationConfig {
	if voice == "" {
		voice = prompt.DefaultVoice
	}
	return GenerationConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &SpeechConfig{
			VoiceConfig: &VoiceConfig{
				PrebuiltVoiceConfig: &PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}
}
