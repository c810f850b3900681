package dto

import "time"

type SummaryDTO struct {
	SessionId string    `json:"session_id"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
