package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one stored turn half. Options only ever accompany
// assistant messages.
type ChatMessage struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	SessionId uuid.UUID
	Role      string
	Content   string
	Options   []string
	CreatedAt time.Time
	ExpiresAt time.Time
}
