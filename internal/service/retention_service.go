package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/constant"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/pkg/logger"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/unitofwork"
)

type IRetentionService interface {
	Start() error
	Stop()
	SweepOnce(ctx context.Context) error
}

// retentionService hard-deletes conversations and summaries whose
// expires_at has passed. Reads already filter expired rows, so the sweep
// only reclaims storage.
type retentionService struct {
	uowFactory unitofwork.RepositoryFactory
	schedule   string
	cron       *cron.Cron
	logger     logger.ILogger
}

func NewRetentionService(
	uowFactory unitofwork.RepositoryFactory,
	schedule string,
	log logger.ILogger,
) IRetentionService {
	return &retentionService{
		uowFactory: uowFactory,
		schedule:   schedule,
		cron:       cron.New(),
		logger:     log,
	}
}

func (s *retentionService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := s.SweepOnce(ctx); err != nil {
			s.logger.Error(constant.ModuleRetention, "Retention sweep failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info(constant.ModuleRetention, "Retention sweeper scheduled", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

func (s *retentionService) Stop() {
	s.cron.Stop()
}

func (s *retentionService) SweepOnce(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	cutoff := time.Now()

	removedMessages, err := uow.ChatMessageRepository().DeleteExpired(ctx, cutoff)
	if err != nil {
		return err
	}

	removedSummaries, err := uow.SessionSummaryRepository().DeleteExpired(ctx, cutoff)
	if err != nil {
		return err
	}

	if removedMessages > 0 || removedSummaries > 0 {
		s.logger.Info(constant.ModuleRetention, "Retention sweep completed", map[string]interface{}{
			"messages":  removedMessages,
			"summaries": removedSummaries,
		})
	}
	return nil
}
