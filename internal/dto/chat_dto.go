package dto

import "time"

type SendChatRequest struct {
	SessionId string `json:"session_id"`
	Query     string `json:"query" validate:"required"`
	K         int    `json:"k" validate:"omitempty,min=1"`
}

type SendChatResponse struct {
	SessionId string        `json:"session_id"`
	Response  string        `json:"response"`
	Matches   []FragmentDTO `json:"matches"`
}

type ChatTurnDTO struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatHistoryResponse struct {
	SessionId string        `json:"session_id"`
	Turns     []ChatTurnDTO `json:"turns"`
}

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
}
