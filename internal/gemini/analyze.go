// ABOUTME: Psychoanalytic reply generation
// ABOUTME: Builds the multimodal analyst request and extracts the reply text
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/Resonate-Protocol/couch-go/internal/attach"
	"github.com/Resonate-Protocol/couch-go/internal/prompt"
	"google.golang.org/genai"
)

const (
	analysisTemperature    = 0.8
	analysisThinkingBudget = 4000
)

// AnalyzeRequest is one user turn sent to the analyst
type AnalyzeRequest struct {
	Text     string
	Image    string // data URL, optional
	Language prompt.Language
}

// Analyze returns the analyst's reply to req. A request with neither text
// nor image sends the language's opening prompt; an empty reply is replaced
// with the language's fallback text.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (string, error) {
	lang := req.Language
	if lang == "" {
		lang = prompt.DefaultLanguage
	}

	parts, err := analysisParts(req, lang)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(lang.SystemInstruction(), genai.RoleUser),
		Temperature:       genai.Ptr[float32](analysisTemperature),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](analysisThinkingBudget),
		},
	}

	resp, err := c.Generate(ctx, c.config.AnalysisModel, parts, config)
	if err != nil {
		if errors.Is(err, ErrInvalidAPIKey) {
			return "", ErrInvalidAPIKey
		}
		return "", fmt.Errorf("analysis failed: %w", err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return lang.FallbackReply(), nil
	}
	return text, nil
}

func analysisParts(req AnalyzeRequest, lang prompt.Language) ([]*genai.Part, error) {
	var parts []*genai.Part

	if strings.TrimSpace(req.Text) != "" {
		parts = append(parts, genai.NewPartFromText(req.Text))
	}

	if req.Image != "" {
		img, err := attach.ParseDataURL(req.Image)
		if err != nil {
			return nil, fmt.Errorf("invalid image attachment: %w", err)
		}
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid image attachment: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, img.MIMEType))
	}

	if len(parts) == 0 {
		parts = append(parts, genai.NewPartFromText(lang.OpeningPrompt()))
	}
	return parts, nil
}
