// ABOUTME: Bubbletea model for the couch TUI
// ABOUTME: Defines conversation state and update logic
package ui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Resonate-Protocol/couch-go/internal/attach"
	"github.com/Resonate-Protocol/couch-go/internal/chat"
	"github.com/Resonate-Protocol/couch-go/internal/prompt"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Config holds TUI dependencies
type Config struct {
	Analyst  *chat.Analyst
	Loader   *attach.Loader
	Players  *Players
	Language prompt.Language
	Voice    string

	// SaveAudioDir, when set, receives a WAV copy of every spoken reply
	SaveAudioDir string
}

// replyMsg carries the analyst's answer to the last turn
type replyMsg struct {
	reply chat.Message
	err   error
}

// attachMsg carries a loaded image attachment
type attachMsg struct {
	image attach.Image
	err   error
}

// Model represents the TUI state
type Model struct {
	config Config
	keys   keyMap

	// Conversation
	language  prompt.Language
	voice     string
	analyzing bool
	selected  string // ID of the reply the play key acts on
	pending   *attach.Image
	attaching bool
	notice    string

	// Widgets
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	// Dimensions
	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(config Config) Model {
	if config.Language == "" {
		config.Language = prompt.DefaultLanguage
	}
	if config.Voice == "" {
		config.Voice = prompt.DefaultVoice
	}

	input := textinput.New()
	input.Prompt = "┃ "
	input.CharLimit = 0
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		config:   config,
		keys:     defaultKeyMap(),
		language: config.Language,
		voice:    config.Voice,
		input:    input,
		viewport: viewport.New(80, 20),
		spinner:  s,
	}
	m.input.Placeholder = m.strings().Placeholder
	m.refresh()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case replyMsg:
		m.analyzing = false
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else if msg.reply.HasAudio() {
			m.selected = msg.reply.ID
		}
		m.refresh()
		return m, nil
	case attachMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			img := msg.image
			m.pending = &img
			m.notice = ""
		}
		return m, nil
	case PlaybackMsg:
		m.refresh()
		return m, nil
	case PlaybackErrorMsg:
		m.notice = fmt.Sprintf("%s: %v", m.strings().Voice, msg.Err)
		m.refresh()
		return m, nil
	case spinner.TickMsg:
		if !m.analyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey handles keyboard shortcuts. Keys it does not claim go to the input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Send):
		if m.attaching {
			return m.loadAttachment(), true
		}
		return m.send(), true
	case key.Matches(msg, m.keys.Cancel):
		if m.attaching {
			m.attaching = false
			m.input.Reset()
			m.input.Placeholder = m.strings().Placeholder
		} else {
			m.pending = nil
		}
		m.notice = ""
		return nil, true
	case key.Matches(msg, m.keys.Attach):
		m.attaching = true
		m.input.Reset()
		m.input.Placeholder = m.strings().Image + ": path or URL"
		return nil, true
	case key.Matches(msg, m.keys.Language):
		m.language = m.language.Toggle()
		if !m.attaching {
			m.input.Placeholder = m.strings().Placeholder
		}
		m.refresh()
		return nil, true
	case key.Matches(msg, m.keys.Voice):
		m.voice = prompt.NextVoice(m.voice).ID
		return nil, true
	case key.Matches(msg, m.keys.Play):
		return m.togglePlayback(), true
	case key.Matches(msg, m.keys.Next):
		m.moveSelection(1)
		return nil, true
	case key.Matches(msg, m.keys.Prev):
		m.moveSelection(-1)
		return nil, true
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height/2)
		return nil, true
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height/2)
		return nil, true
	}

	return nil, false
}

// send submits the current input and image. It is refused while a reply is
// pending or when there is nothing to send.
func (m *Model) send() tea.Cmd {
	if m.analyzing || m.config.Analyst == nil {
		return nil
	}

	turn := chat.Turn{
		Text:     m.input.Value(),
		Language: m.language,
		Voice:    m.voice,
	}
	if m.pending != nil {
		turn.Image = m.pending.DataURL()
	}
	if turn.Empty() {
		return nil
	}

	if _, err := m.config.Analyst.Submit(turn); err != nil {
		m.notice = err.Error()
		return nil
	}

	m.input.Reset()
	m.pending = nil
	m.notice = ""
	m.analyzing = true
	m.refresh()

	return tea.Batch(m.respond(turn), m.spinner.Tick)
}

func (m Model) respond(turn chat.Turn) tea.Cmd {
	analyst := m.config.Analyst
	saveDir := m.config.SaveAudioDir

	return func() tea.Msg {
		reply, err := analyst.Respond(context.Background(), turn)
		if err != nil {
			log.Printf("Analysis failed: %v", err)
			return replyMsg{err: err}
		}

		if saveDir != "" && reply.HasAudio() {
			if _, err := chat.ExportAudio(saveDir, reply); err != nil {
				log.Printf("Failed to save reply audio: %v", err)
			}
		}
		return replyMsg{reply: reply}
	}
}

func (m *Model) loadAttachment() tea.Cmd {
	src := strings.TrimSpace(m.input.Value())
	m.attaching = false
	m.input.Reset()
	m.input.Placeholder = m.strings().Placeholder

	if src == "" || m.config.Loader == nil {
		return nil
	}

	loader := m.config.Loader
	return func() tea.Msg {
		img, err := loader.Load(context.Background(), src)
		return attachMsg{image: img, err: err}
	}
}

// togglePlayback plays or stops the selected reply off the event loop
func (m *Model) togglePlayback() tea.Cmd {
	if m.selected == "" || m.config.Players == nil || m.config.Analyst == nil {
		return nil
	}

	reply, ok := m.config.Analyst.History().Get(m.selected)
	if !ok || !reply.HasAudio() {
		return nil
	}

	players := m.config.Players
	return func() tea.Msg {
		if err := players.Toggle(reply); err != nil {
			return PlaybackErrorMsg{ID: reply.ID, Err: err}
		}
		return nil
	}
}

// moveSelection steps through replies that carry audio
func (m *Model) moveSelection(delta int) {
	ids := m.audioReplies()
	if len(ids) == 0 {
		return
	}

	idx := len(ids) - 1
	for i, id := range ids {
		if id == m.selected {
			idx = (i + delta + len(ids)) % len(ids)
			break
		}
	}
	m.selected = ids[idx]
	m.refresh()
}

func (m Model) audioReplies() []string {
	if m.config.Analyst == nil {
		return nil
	}

	var ids []string
	for _, msg := range m.config.Analyst.History().Messages() {
		if msg.Role == chat.RoleAnalyst && msg.HasAudio() {
			ids = append(ids, msg.ID)
		}
	}
	return ids
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.input.Width = width - 4
	m.viewport.Width = width
	m.viewport.Height = height - headerHeight - footerHeight
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.refresh()
}

// refresh re-renders the conversation into the viewport
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m Model) strings() prompt.Strings {
	return m.language.UI()
}
