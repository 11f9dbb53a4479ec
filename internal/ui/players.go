// ABOUTME: Per-message playback controllers for analyst replies
// ABOUTME: Creates one controller per message and forwards its events to the TUI
package ui

import (
	"fmt"
	"log"
	"sync"

	"github.com/Resonate-Protocol/couch-go/internal/chat"
	"github.com/Resonate-Protocol/couch-go/pkg/audio/output"
	"github.com/Resonate-Protocol/couch-go/pkg/playback"
	tea "github.com/charmbracelet/bubbletea"
)

// PlaybackMsg reports a reply's playback state change
type PlaybackMsg struct {
	ID    string
	State playback.State
}

// PlaybackErrorMsg reports a reply that could not be played
type PlaybackErrorMsg struct {
	ID  string
	Err error
}

// Players owns the playback controllers of every reply
type Players struct {
	mu          sync.Mutex
	output      output.Output
	arbiter     *playback.Arbiter
	controllers map[string]*playback.Controller
	send        func(tea.Msg)
	closed      bool
}

// NewPlayers creates a player set rendering on out. A non-nil arbiter
// keeps replies from playing over each other.
func NewPlayers(out output.Output, arbiter *playback.Arbiter) *Players {
	return &Players{
		output:      out,
		arbiter:     arbiter,
		controllers: make(map[string]*playback.Controller),
	}
}

// SetSender routes playback events to send, usually tea.Program.Send
func (p *Players) SetSender(send func(tea.Msg)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.send = send
}

func (p *Players) notify(msg tea.Msg) {
	p.mu.Lock()
	send := p.send
	p.mu.Unlock()

	if send != nil {
		send(msg)
	}
}

// Toggle starts m's audio, or stops it if it is already playing. State
// changes are delivered through the sender, so Toggle must not run on the
// program's event loop.
func (p *Players) Toggle(m chat.Message) error {
	if !m.HasAudio() {
		return fmt.Errorf("message %s has no audio", m.ID)
	}

	ctrl, err := p.controller(m.ID)
	if err != nil {
		return err
	}
	return ctrl.Start(m.Audio)
}

// State returns the playback state of message id
func (p *Players) State(id string) playback.State {
	p.mu.Lock()
	ctrl := p.controllers[id]
	p.mu.Unlock()

	if ctrl == nil {
		return playback.Idle
	}
	return ctrl.State()
}

// Close stops every reply and releases their devices
func (p *Players) Close() {
	p.mu.Lock()
	p.closed = true
	controllers := make([]*playback.Controller, 0, len(p.controllers))
	for _, ctrl := range p.controllers {
		controllers = append(controllers, ctrl)
	}
	p.mu.Unlock()

	for _, ctrl := range controllers {
		ctrl.Close()
	}
	log.Printf("Closed %d playback controllers", len(controllers))
}

func (p *Players) controller(id string) (*playback.Controller, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, playback.ErrClosed
	}
	if ctrl, ok := p.controllers[id]; ok {
		return ctrl, nil
	}

	ctrl, err := playback.NewController(playback.Config{
		Output:  p.output,
		Arbiter: p.arbiter,
		OnStateChange: func(s playback.State) {
			p.notify(PlaybackMsg{ID: id, State: s})
		},
	})
	if err != nil {
		return nil, err
	}

	p.controllers[id] = ctrl
	return ctrl, nil
}
