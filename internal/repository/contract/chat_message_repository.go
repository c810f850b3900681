package contract

import (
	"context"
	"time"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/entity"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/specification"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
