// ABOUTME: Gemini client built on the Google Gen AI SDK
// ABOUTME: Wraps generateContent calls authenticated with an API key
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	// DefaultAnalysisModel produces the analyst's replies
	DefaultAnalysisModel = "gemini-3-pro-preview"

	// DefaultSpeechModel renders replies as speech
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
)

// Config holds client configuration
type Config struct {
	// APIKey authenticates every request (required)
	APIKey string

	// BaseURL overrides the API root, used by tests
	BaseURL string

	// AnalysisModel is the text model (default: DefaultAnalysisModel)
	AnalysisModel string

	// SpeechModel is the TTS model (default: DefaultSpeechModel)
	SpeechModel string

	// Timeout bounds each HTTP request (default: 2 minutes)
	Timeout time.Duration

	// HTTPClient replaces the default HTTP client
	HTTPClient *http.Client
}

// Client talks to the Gemini API
type Client struct {
	config Config
	genai  *genai.Client
}

// NewClient creates a client, returning ErrMissingAPIKey without a key
func NewClient(config Config) (*Client, error) {
	key := strings.TrimSpace(config.APIKey)
	if key == "" || key == "undefined" {
		return nil, ErrMissingAPIKey
	}
	config.APIKey = key

	if config.AnalysisModel == "" {
		config.AnalysisModel = DefaultAnalysisModel
	}
	if config.SpeechModel == "" {
		config.SpeechModel = DefaultSpeechModel
	}
	if config.Timeout == 0 {
		config.Timeout = 2 * time.Minute
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	cc := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if config.BaseURL != "" {
		cc.HTTPOptions.BaseURL = strings.TrimRight(config.BaseURL, "/") + "/"
	}

	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create generative client: %w", err)
	}

	return &Client{
		config: config,
		genai:  client,
	}, nil
}

// Generate calls generateContent on model with a single user turn
func (c *Client) Generate(ctx context.Context, model string, parts []*genai.Part, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, strings.TrimPrefix(model, "models/"), contents, config)
	if err != nil {
		return nil, toAPIError(err)
	}

	log.Printf("Gemini %s responded in %v", model, time.Since(start).Round(time.Millisecond))
	return resp, nil
}

// toAPIError converts SDK failures into *APIError
func toAPIError(err error) error {
	var sdkErr genai.APIError
	if errors.As(err, &sdkErr) {
		return &APIError{
			StatusCode: sdkErr.Code,
			Status:     sdkErr.Status,
			Message:    sdkErr.Message,
			Reason:     detailReason(sdkErr.Details),
		}
	}

	if strings.Contains(err.Error(), "API_KEY_INVALID") {
		return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	}
	return err
}

func detailReason(details []map[string]any) string {
	for _, d := range details {
		if reason, ok := d["reason"].(string); ok && reason != "" {
			return reason
		}
	}
	return ""
}

// responseText concatenates the non-thought text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	content := firstContent(resp)
	if content == nil {
		return ""
	}

	var text string
	for _, part := range content.Parts {
		if part == nil || part.Thought {
			continue
		}
		text += part.Text
	}
	return text
}

// responseAudio returns the first part's inline payload
func responseAudio(resp *genai.GenerateContentResponse) []byte {
	content := firstContent(resp)
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return nil
	}
	if blob := content.Parts[0].InlineData; blob != nil {
		return blob.Data
	}
	return nil
}

func firstContent(resp *genai.GenerateContentResponse) *genai.Content {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	return resp.Candidates[0].Content
}
