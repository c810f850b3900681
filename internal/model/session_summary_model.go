package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionSummary struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_session_summaries_user_session"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_summaries_user_session"`
	Summary   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (SessionSummary) TableName() string {
	return "session_summaries"
}
