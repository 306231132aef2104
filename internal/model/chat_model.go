package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        string    `gorm:"type:varchar(128);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

type ChatTurn struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId    string    `gorm:"type:varchar(128);not null;index"`
	UserMessage      string    `gorm:"type:text;not null"`
	AssistantMessage string    `gorm:"type:text;not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index"`
}

func (ChatTurn) TableName() string {
	return "chat_turns"
}
