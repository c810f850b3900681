package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/constant"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/dto"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/entity"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/pkg/logger"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/specification"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/unitofwork"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/summary"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
)

// maxSummariesPerUser bounds the listing endpoint.
const maxSummariesPerUser = 50

type ISummaryService interface {
	GetSummaries(ctx context.Context, userId uuid.UUID) ([]dto.SummaryDTO, error)
	// GetRecentTexts returns newest-first summary texts for greeting
	// context. Failures degrade to an empty slice.
	GetRecentTexts(ctx context.Context, userId uuid.UUID, limit int) []string
	GenerateAndStore(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, retentionDays int) error
}

type summaryService struct {
	uowFactory    unitofwork.RepositoryFactory
	summarizer    *summary.Summarizer
	historyWindow int
	cache         *cache.Cache
	logger        logger.ILogger
}

func NewSummaryService(
	uowFactory unitofwork.RepositoryFactory,
	summarizer *summary.Summarizer,
	historyWindow int,
	log logger.ILogger,
) ISummaryService {
	return &summaryService{
		uowFactory:    uowFactory,
		summarizer:    summarizer,
		historyWindow: historyWindow,
		cache:         cache.New(time.Minute, 5*time.Minute),
		logger:        log,
	}
}

func (s *summaryService) GetSummaries(ctx context.Context, userId uuid.UUID) ([]dto.SummaryDTO, error) {
	cacheKey := summariesCacheKey(userId)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]dto.SummaryDTO), nil
	}

	entities, err := s.findCurrent(ctx, userId, maxSummariesPerUser)
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.SummaryDTO, len(entities))
	for i, e := range entities {
		dtos[i] = dto.SummaryDTO{
			SessionId: e.SessionId.String(),
			Summary:   e.Summary,
			CreatedAt: e.CreatedAt,
		}
	}

	s.cache.Set(cacheKey, dtos, cache.DefaultExpiration)
	return dtos, nil
}

func (s *summaryService) GetRecentTexts(ctx context.Context, userId uuid.UUID, limit int) []string {
	entities, err := s.findCurrent(ctx, userId, limit)
	if err != nil {
		s.logger.Warn(constant.ModuleSummary, "Failed to load past summaries", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	texts := make([]string, 0, len(entities))
	for _, e := range entities {
		texts = append(texts, e.Summary)
	}
	return texts
}

func (s *summaryService) GenerateAndStore(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, retentionDays int) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Bounded newest-first page, reversed to chronological. The job runs
	// after the triggering turn was committed, so the window is taken from
	// the stored session and can include that turn's assistant reply.
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: s.historyWindow},
	)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	conversation := make([]llm.Message, len(messages))
	for i, msg := range messages {
		conversation[len(messages)-1-i] = llm.Message{Role: msg.Role, Content: msg.Content}
	}

	text := s.summarizer.Summarize(ctx, conversation)

	record := &entity.SessionSummary{
		Id:        uuid.New(),
		UserId:    userId,
		SessionId: sessionId,
		Summary:   text,
		CreatedAt: time.Now(),
		// Summaries live and die with the conversation they describe;
		// messages[0] is the newest row of the descending page.
		ExpiresAt: messages[0].ExpiresAt,
	}
	if retentionDays > 0 && record.ExpiresAt.IsZero() {
		record.ExpiresAt = time.Now().Add(time.Duration(retentionDays) * 24 * time.Hour)
	}

	if err := uow.SessionSummaryRepository().Upsert(ctx, record); err != nil {
		return err
	}

	s.cache.Delete(summariesCacheKey(userId))

	s.logger.Info(constant.ModuleSummary, "Session summary stored", map[string]interface{}{
		"session_id": sessionId.String(),
	})
	return nil
}

func (s *summaryService) findCurrent(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.SessionSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit})
	}

	entities, err := uow.SessionSummaryRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	current := make([]*entity.SessionSummary, 0, len(entities))
	for _, e := range entities {
		if e.ExpiresAt.Before(now) {
			continue
		}
		current = append(current, e)
	}
	return current, nil
}

func summariesCacheKey(userId uuid.UUID) string {
	return fmt.Sprintf("summaries:%s", userId)
}
