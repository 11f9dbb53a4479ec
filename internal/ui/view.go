// ABOUTME: Rendering for the couch TUI
// ABOUTME: Header, message list with audio controls, and input footer
package ui

import (
	"fmt"
	"strings"

	"github.com/Resonate-Protocol/couch-go/internal/chat"
	"github.com/Resonate-Protocol/couch-go/internal/prompt"
	"github.com/Resonate-Protocol/couch-go/pkg/playback"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 2
	footerHeight = 3
)

var (
	accent = lipgloss.Color("39")
	muted  = lipgloss.Color("245")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("236"))
	subtitleStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	badgeStyle    = lipgloss.NewStyle().Foreground(accent).Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
	headerStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(accent)

	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(accent).Padding(0, 1)
	analystStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("153")).Padding(0, 1)
	metaStyle     = lipgloss.NewStyle().Foreground(muted)
	audioStyle    = lipgloss.NewStyle().Foreground(accent)
	selectedStyle = audioStyle.Bold(true).Reverse(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(muted).Italic(true).Align(lipgloss.Center)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle     = lipgloss.NewStyle().Foreground(muted)
	spinnerStyle  = lipgloss.NewStyle().Foreground(accent)
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFooter(),
	)
}

// renderHeader renders title, voice and language controls
func (m Model) renderHeader() string {
	s := m.strings()

	left := titleStyle.Render(s.Title) + "  " + subtitleStyle.Render(strings.ToUpper(s.Subtitle))

	voiceLabel := m.voice
	if v, err := prompt.LookupVoice(m.voice); err == nil {
		voiceLabel = v.Label(m.language)
	}
	right := badgeStyle.Render("♪ "+voiceLabel) + " " + badgeStyle.Render(s.SwitchLang)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderMessages renders the conversation
func (m Model) renderMessages() string {
	s := m.strings()
	width := m.viewport.Width

	var msgs []chat.Message
	if m.config.Analyst != nil {
		msgs = m.config.Analyst.History().Messages()
	}

	if len(msgs) == 0 && !m.analyzing {
		return emptyStyle.Width(width).Render("\n\n" + s.Empty)
	}

	bubbleWidth := width * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = width
	}

	var b strings.Builder
	for _, msg := range msgs {
		b.WriteString(m.renderMessage(msg, width, bubbleWidth))
		b.WriteString("\n\n")
	}

	if m.analyzing {
		b.WriteString(m.spinner.View() + " " + metaStyle.Render(s.Analyzing))
	}

	return b.String()
}

func (m Model) renderMessage(msg chat.Message, width, bubbleWidth int) string {
	stamp := metaStyle.Render(msg.Timestamp.Format("15:04"))

	if msg.Role == chat.RoleUser {
		body := msg.Content
		if msg.Image != "" {
			body = strings.TrimSpace("🖼  " + m.strings().Image + "\n" + body)
		}
		bubble := userStyle.Width(bubbleWidth).Render(body)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, lipgloss.JoinVertical(lipgloss.Right, bubble, stamp))
	}

	parts := []string{analystStyle.Width(bubbleWidth).Render(msg.Content)}
	footer := stamp
	if msg.HasAudio() {
		footer = m.renderAudioControl(msg) + "  " + stamp
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderAudioControl renders the play/stop toggle of an analyst reply
func (m Model) renderAudioControl(msg chat.Message) string {
	s := m.strings()

	label := "▶ " + s.Voice
	if m.config.Players != nil && m.config.Players.State(msg.ID) == playback.Playing {
		label = "■ " + s.StopVoice
	}

	if msg.ID == m.selected {
		return selectedStyle.Render(label)
	}
	return audioStyle.Render(label)
}

// renderFooter renders the notice line, attachment, input and help
func (m Model) renderFooter() string {
	var lines []string

	status := ""
	if m.notice != "" {
		status = noticeStyle.Render(m.notice)
	} else if m.pending != nil {
		status = audioStyle.Render(fmt.Sprintf("🖼  %s (esc to remove)", m.pending.Source))
	}
	lines = append(lines, status)
	lines = append(lines, m.input.View())
	lines = append(lines, m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.shortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, "  "))
}
