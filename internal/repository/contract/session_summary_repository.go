package contract

import (
	"context"
	"time"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/entity"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/specification"
)

type SessionSummaryRepository interface {
	// Upsert keeps one summary per (user, session), refreshed as the
	// conversation grows.
	Upsert(ctx context.Context, summary *entity.SessionSummary) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionSummary, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
