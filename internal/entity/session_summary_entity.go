package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionSummary is a condensed record of one chat session, kept under the
// same retention clock as the conversation it came from.
type SessionSummary struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	SessionId uuid.UUID
	Summary   string
	CreatedAt time.Time
	ExpiresAt time.Time
}
