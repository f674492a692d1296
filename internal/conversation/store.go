// Package conversation keeps the ordered, in-memory history of a chat session.
package conversation

import (
	"time"

	"github.com/cloudwego/eino/schema"
)

// Role attributes a turn to one side of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in the conversation. Turns are values and are
// never mutated after Append returns them.
type Turn struct {
	Seq     int       `json:"seq"`
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Ts      time.Time `json:"ts"`
}

// ToSchemaMessage converts a Turn to an Eino schema.Message.
func (t Turn) ToSchemaMessage() *schema.Message {
	if t.Role == RoleAssistant {
		return schema.AssistantMessage(t.Content, nil)
	}
	return schema.UserMessage(t.Content)
}

// Store is the ordered history of one session. Sequence numbers are
// contiguous from 0 since the last Reset.
type Store struct {
	turns []Turn
	now   func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Append records a turn and returns it with its assigned sequence number.
func (s *Store) Append(role Role, content string) Turn {
	t := Turn{
		Seq:     len(s.turns),
		Role:    role,
		Content: content,
		Ts:      s.now(),
	}
	s.turns = append(s.turns, t)
	return t
}

// Transcript returns a copy of the history in insertion order.
func (s *Store) Transcript() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of recorded turns.
func (s *Store) Len() int {
	return len(s.turns)
}

// Reset clears the history.
func (s *Store) Reset() {
	s.turns = nil
}

// Messages converts turns to Eino schema messages.
func Messages(turns []Turn) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, t.ToSchemaMessage())
	}
	return msgs
}
