package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/wibisono/ais-console/internal/routing"
)

// Role identifies who produced a chat message.
type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// Message is one entry in a session's append-only transcript.
type Message struct {
	ID        string           `json:"id"`
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Agent     routing.AgentTag `json:"agent,omitempty"`
}

func newMessage(role Role, content string, agent routing.AgentTag) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Agent:     agent,
	}
}
