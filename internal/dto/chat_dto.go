package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	SessionId string `json:"session_id" validate:"omitempty,uuid"`
	Message   string `json:"message" validate:"required,max=4000"`
}

type ChatResponse struct {
	SessionId string    `json:"session_id"`
	Response  string    `json:"response"`
	Options   []string  `json:"options"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatHistoryItem struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Options   []string  `json:"options,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SummaryJobMessage is the watermill payload that asks the worker to
// summarize one session.
type SummaryJobMessage struct {
	UserId    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	SessionId uuid.UUID `json:"session_id"`
}
