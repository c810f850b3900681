package unitofwork

import (
	"context"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatMessageRepository() contract.ChatMessageRepository
	SessionSummaryRepository() contract.SessionSummaryRepository
}
