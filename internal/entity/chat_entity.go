package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatTurn is one completed (user, assistant) exchange. Turns are append-only;
// clearing a session deletes its turns but keeps the session identity.
type ChatTurn struct {
	Id               uuid.UUID
	ChatSessionId    string
	UserMessage      string
	AssistantMessage string
	CreatedAt        time.Time
}
