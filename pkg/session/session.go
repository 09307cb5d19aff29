// Package session holds the per-conversation message log and the
// side-channel interceptor that routes map coordinates around the agent's
// text reasoning.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/voyagekit/tripmcp/pkg/geo"
)

// Role tags the originator of a chat message.
type Role string

// Chat message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the session log: either a role-tagged chat
// message or a coordinate-bearing side-channel record. Side-channel
// records have no role; they gain a render key on first display and are
// never otherwise mutated.
type Message struct {
	Role          Role           `json:"role,omitempty"`
	Content       string         `json:"content,omitempty"`
	GeocodePoints []geo.Location `json:"geocode_points,omitempty"`
	RenderKey     string         `json:"render_key,omitempty"`
}

// IsSideChannel reports whether the message is a side-channel record.
func (m Message) IsSideChannel() bool {
	return len(m.GeocodePoints) > 0
}

// Log is the append-only session message log. Entries are appended in
// arrival order; the only permitted mutation is assigning a render key to
// a side-channel record, exactly once.
type Log struct {
	mu       sync.Mutex
	messages []Message
}

// NewLog creates an empty session log.
func NewLog() *Log {
	return &Log{}
}

// Append adds a message to the end of the log.
func (l *Log) Append(msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

// AppendChat adds a role-tagged chat message.
func (l *Log) AppendChat(role Role, content string) {
	l.Append(Message{Role: role, Content: content})
}

// AppendSideChannel adds a side-channel record holding a copy of the
// coordinate sequence, so later mutation of the caller's slice cannot
// reach the log.
func (l *Log) AppendSideChannel(points []geo.Location) {
	copied := make([]geo.Location, len(points))
	copy(copied, points)
	l.Append(Message{GeocodePoints: copied})
}

// Messages returns a snapshot of the log in arrival order.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := make([]Message, len(l.messages))
	copy(snapshot, l.messages)
	return snapshot
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// Clear empties the log.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
}

// LastSideChannel returns the most recently appended side-channel record
// and its index in the log.
func (l *Log) LastSideChannel() (Message, int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.messages) - 1; i >= 0; i-- {
		if l.messages[i].IsSideChannel() {
			return l.messages[i], i, true
		}
	}
	return Message{}, -1, false
}

// EnsureRenderKey assigns a fresh unique render key to the side-channel
// record at the given index if it does not have one yet, and returns the
// key. Repeated calls for the same record return the same key, so the
// presentation layer can re-render without regenerating it.
func (l *Log) EnsureRenderKey(index int) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.messages) {
		return "", fmt.Errorf("session: message index %d out of range", index)
	}
	if !l.messages[index].IsSideChannel() {
		return "", fmt.Errorf("session: message %d is not a side-channel record", index)
	}
	if l.messages[index].RenderKey == "" {
		l.messages[index].RenderKey = uuid.NewString()
	}
	return l.messages[index].RenderKey, nil
}
