// ABOUTME: Conversation messages and history
// ABOUTME: Thread-safe ordered log of user and analyst turns
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies who wrote a message
type Role string

const (
	RoleUser    Role = "user"
	RoleAnalyst Role = "analyst"
)

// Message is one turn of the conversation
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
	Image     string // data URL
	Audio     string // base64 PCM16 24 kHz mono
}

// HasAudio reports whether the message carries spoken audio
func (m Message) HasAudio() bool {
	return m.Audio != ""
}

// NewMessage creates a message stamped with a fresh ID and the current time
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// History is the ordered conversation log
type History struct {
	mu       sync.RWMutex
	messages []Message
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{}
}

// Add appends m
func (h *History) Add(m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, m)
}

// Messages returns a snapshot of every message in order
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Get finds a message by ID
func (h *History) Get(id string) (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, m := range h.messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}
