// ABOUTME: Analyst turn orchestration
// ABOUTME: Requests a reply for a user turn, then its spoken rendering
package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Resonate-Protocol/couch-go/internal/gemini"
	"github.com/Resonate-Protocol/couch-go/internal/prompt"
)

// Analyzer produces the analyst's text reply
type Analyzer interface {
	Analyze(ctx context.Context, req gemini.AnalyzeRequest) (string, error)
}

// Turn is what the user submits
type Turn struct {
	Text     string
	Image    string // data URL
	Language prompt.Language
	Voice    string
}

// Empty reports whether the turn has neither text nor image
func (t Turn) Empty() bool {
	return strings.TrimSpace(t.Text) == "" && t.Image == ""
}

// Analyst answers user turns and records both sides in a history
type Analyst struct {
	analyzer Analyzer
	speaker  gemini.Speaker // nil disables speech
	history  *History
}

// NewAnalyst creates an analyst writing to history
func NewAnalyst(analyzer Analyzer, speaker gemini.Speaker, history *History) *Analyst {
	return &Analyst{
		analyzer: analyzer,
		speaker:  speaker,
		history:  history,
	}
}

// History returns the conversation log
func (a *Analyst) History() *History {
	return a.history
}

// Submit records the user turn and returns it
func (a *Analyst) Submit(turn Turn) (Message, error) {
	if turn.Empty() {
		return Message{}, fmt.Errorf("nothing to send")
	}

	m := NewMessage(RoleUser, turn.Text)
	m.Image = turn.Image
	a.history.Add(m)
	return m, nil
}

// Respond asks for the analyst's reply to turn and records it. Speech
// failures are logged and leave the reply without audio.
func (a *Analyst) Respond(ctx context.Context, turn Turn) (Message, error) {
	text, err := a.analyzer.Analyze(ctx, gemini.AnalyzeRequest{
		Text:     turn.Text,
		Image:    turn.Image,
		Language: turn.Language,
	})
	if err != nil {
		return Message{}, err
	}

	reply := NewMessage(RoleAnalyst, text)

	if a.speaker != nil {
		audio, err := a.speaker.Speak(ctx, text, turn.Voice)
		if err != nil {
			log.Printf("Warning: speech generation failed: %v", err)
		} else {
			reply.Audio = audio
		}
	}

	a.history.Add(reply)
	return reply, nil
}
