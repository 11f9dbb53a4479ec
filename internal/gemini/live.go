// ABOUTME: Speech synthesis over the Gemini Live WebSocket API
// ABOUTME: Streams PCM chunks for one turn and joins them into a single blob
package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// LiveEndpoint is the WebSocket endpoint for the Gemini Live API
	LiveEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1alpha.GenerativeService.BidiGenerateContent"

	// DefaultLiveModel speaks replies over the Live API
	DefaultLiveModel = "gemini-2.0-flash-live-001"

	liveHandshakeTimeout = 30 * time.Second
)

// LiveSpeaker renders speech with one short-lived Live session per call
type LiveSpeaker struct {
	apiKey   string
	endpoint string
	model    string
	dialer   websocket.Dialer
}

// NewLiveSpeaker creates a speaker. Empty endpoint and model use the defaults.
func NewLiveSpeaker(apiKey, endpoint, model string) (*LiveSpeaker, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if endpoint == "" {
		endpoint = LiveEndpoint
	}
	if model == "" {
		model = DefaultLiveModel
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	return &LiveSpeaker{
		apiKey:   apiKey,
		endpoint: endpoint,
		model:    model,
		dialer:   websocket.Dialer{HandshakeTimeout: liveHandshakeTimeout},
	}, nil
}

// Speak returns base64 PCM16 24 kHz mono speech for text in voice
func (s *LiveSpeaker) Speak(ctx context.Context, text, voice string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("speech: nothing to say")
	}

	header := http.Header{}
	header.Add("x-goog-api-key", s.apiKey)

	conn, resp, err := s.dialer.DialContext(ctx, s.endpoint, header)
	if err != nil {
		if resp != nil {
			return "", fmt.Errorf("failed to connect to Live API: %w (HTTP status: %d)", err, resp.StatusCode)
		}
		return "", fmt.Errorf("failed to connect to Live API: %w", err)
	}
	defer conn.Close()

	// Unblock reads when ctx ends
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	defer stop()

	setup := liveSetupRequest{Setup: liveSetup{
		Model:            s.model,
		GenerationConfig: liveSpeechConfig(voice),
	}}
	if err := conn.WriteJSON(setup); err != nil {
		return "", fmt.Errorf("failed to send setup message: %w", err)
	}

	if err := waitSetupComplete(conn); err != nil {
		return "", s.ctxErr(ctx, fmt.Errorf("setup failed: %w", err))
	}

	turn := liveClientMessage{ClientContent: &liveClientContent{
		Turns: []Content{{
			Role:  "user",
			Parts: []Part{{Text: "Read the following text aloud exactly as written:\n\n" + text}},
		}},
		TurnComplete: true,
	}}
	if err := conn.WriteJSON(turn); err != nil {
		return "", fmt.Errorf("failed to send turn: %w", err)
	}

	pcm, err := collectAudio(conn)
	if err != nil {
		return "", s.ctxErr(ctx, err)
	}
	if len(pcm) == 0 {
		return "", ErrNoAudio
	}

	log.Printf("Live speech received: %d bytes", len(pcm))
	return base64.StdEncoding.EncodeToString(pcm), nil
}

func (s *LiveSpeaker) ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func waitSetupComplete(conn *websocket.Conn) error {
	for {
		msg, err := readServerMessage(conn)
		if err != nil {
			return err
		}
		if msg.SetupComplete != nil {
			return nil
		}
	}
}

// collectAudio reads the model turn until it completes, joining audio chunks
func collectAudio(conn *websocket.Conn) ([]byte, error) {
	var pcm []byte

	for {
		msg, err := readServerMessage(conn)
		if err != nil {
			return nil, err
		}

		content := msg.ServerContent
		if content == nil {
			continue
		}

		if content.ModelTurn != nil {
			for _, part := range content.ModelTurn.Parts {
				if part.InlineData == nil || !strings.HasPrefix(part.InlineData.MimeType, "audio/") {
					continue
				}
				chunk, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("malformed audio chunk: %w", err)
				}
				pcm = append(pcm, chunk...)
			}
		}

		if content.Interrupted {
			return nil, fmt.Errorf("speech turn interrupted")
		}
		if content.TurnComplete {
			return pcm, nil
		}
	}
}

func readServerMessage(conn *websocket.Conn) (*liveServerMessage, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read from WebSocket: %w", err)
	}

	var msg liveServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse server message: %w", err)
	}
	return &msg, nil
}
