// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and wires playback events into it
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// NewProgram creates the TUI program and routes playback events to it
func NewProgram(config Config) *tea.Program {
	p := tea.NewProgram(NewModel(config), tea.WithAltScreen())
	if config.Players != nil {
		config.Players.SetSender(p.Send)
	}
	return p
}

// Run starts the TUI and blocks until the user quits. Every playback
// controller is closed before it returns.
func Run(config Config) error {
	p := NewProgram(config)
	if config.Players != nil {
		defer config.Players.Close()
	}

	_, err := p.Run()
	return err
}
