package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/constant"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/dto"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/entity"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/pkg/logger"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/specification"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/unitofwork"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/pipeline"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/events"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
	pkgNats "github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/nats"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/usage"
)

// ErrDailyLimitReached is surfaced to the controller as a 429.
var ErrDailyLimitReached = errors.New("daily chat limit reached")

type ChatSettings struct {
	HistoryWindow    int
	SummaryThreshold int
	RetentionDays    int
}

type IChatService interface {
	SendChat(ctx context.Context, userId uuid.UUID, username string, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]dto.ChatHistoryItem, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	chatPipeline   *pipeline.Pipeline
	greeter        *pipeline.Greeter
	summaryService ISummaryService
	publisher      IPublisherService
	limiter        *usage.Limiter
	eventPublisher *pkgNats.Publisher
	logger         logger.ILogger
	settings       ChatSettings
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	chatPipeline *pipeline.Pipeline,
	greeter *pipeline.Greeter,
	summaryService ISummaryService,
	publisher IPublisherService,
	limiter *usage.Limiter,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
	settings ChatSettings,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		chatPipeline:   chatPipeline,
		greeter:        greeter,
		summaryService: summaryService,
		publisher:      publisher,
		limiter:        limiter,
		eventPublisher: eventPublisher,
		logger:         log,
		settings:       settings,
	}
}

func (s *chatService) SendChat(ctx context.Context, userId uuid.UUID, username string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	// An absent session id starts a fresh session.
	sessionId := uuid.New()
	if req.SessionId != "" {
		parsed, err := uuid.Parse(req.SessionId)
		if err != nil {
			return nil, errors.New("invalid session id")
		}
		sessionId = parsed
	}

	// 1. Daily quota
	if err := s.limiter.Allow(ctx, username); err != nil {
		if errors.Is(err, usage.ErrLimitExceeded) {
			return nil, ErrDailyLimitReached
		}
		return nil, err
	}

	// 2. Load recent session history, oldest first
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: s.settings.HistoryWindow},
	)
	if err != nil {
		return nil, err
	}
	history := toLLMHistory(stored)

	isNewSession := len(stored) == 0

	// 3. Past-session context for session open
	var summaryContext string
	var pastSummaries []string
	if isNewSession {
		pastSummaries = s.summaryService.GetRecentTexts(ctx, userId, 3)
		summaryContext = buildSummaryContext(pastSummaries)
	}

	// 4. Greeting path for returning users, otherwise the full pipeline
	var responseText string
	var options []string
	isGreeting := isNewSession && len(pastSummaries) > 0

	if isGreeting {
		responseText = s.greeter.Greet(ctx, pastSummaries)
		options = pipeline.GreetingOptions
	} else {
		result := s.chatPipeline.Run(ctx, req.Message, history, summaryContext)
		responseText = result.ResponseText
		options = result.Options
	}

	// 5. Persist both turn halves under the retention clock
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.settings.RetentionDays) * 24 * time.Hour)
	turn := []*entity.ChatMessage{
		{
			Id:        uuid.New(),
			UserId:    userId,
			SessionId: sessionId,
			Role:      entity.RoleUser,
			Content:   req.Message,
			CreatedAt: now,
			ExpiresAt: expiresAt,
		},
		{
			Id:        uuid.New(),
			UserId:    userId,
			SessionId: sessionId,
			Role:      entity.RoleAssistant,
			Content:   responseText,
			Options:   options,
			CreatedAt: now,
			ExpiresAt: expiresAt,
		},
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().CreateBulk(ctx, turn); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// 6. Long sessions get summarized off the request path
	if !isGreeting && len(stored) >= s.settings.SummaryThreshold {
		job := dto.SummaryJobMessage{UserId: userId, Username: username, SessionId: sessionId}
		if err := s.publisher.PublishSummaryJob(ctx, job); err != nil {
			s.logger.Warn(constant.ModuleChat, "Failed to enqueue summary job", map[string]interface{}{
				"session_id": sessionId.String(),
				"error":      err.Error(),
			})
		}
	}

	// 7. Turn event, best effort
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewChatTurnCompleted(username, sessionId.String(), isGreeting)); err != nil {
			s.logger.Warn(constant.ModuleChat, "Failed to publish turn event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	s.logger.Info(constant.ModuleChat, "Chat turn delivered", map[string]interface{}{
		"session_id": sessionId.String(),
		"greeting":   isGreeting,
		"options":    len(options),
	})

	return &dto.ChatResponse{
		SessionId: sessionId.String(),
		Response:  responseText,
		Options:   options,
		Timestamp: now,
	}, nil
}

func (s *chatService) GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]dto.ChatHistoryItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Newest-first page bounded by the history window, served oldest first.
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: s.settings.HistoryWindow},
	)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]dto.ChatHistoryItem, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		// The sweeper runs periodically; don't serve rows it hasn't
		// collected yet.
		if msg.ExpiresAt.Before(now) {
			continue
		}
		items = append(items, dto.ChatHistoryItem{
			Role:      msg.Role,
			Content:   msg.Content,
			Options:   msg.Options,
			Timestamp: msg.CreatedAt,
		})
	}

	return items, nil
}

// toLLMHistory reverses a newest-first page into chronological order.
func toLLMHistory(stored []*entity.ChatMessage) []llm.Message {
	history := make([]llm.Message, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		history = append(history, llm.Message{
			Role:    stored[i].Role,
			Content: stored[i].Content,
		})
	}
	return history
}

func buildSummaryContext(summaries []string) string {
	if len(summaries) == 0 {
		return ""
	}
	context := "Previous session summaries:"
	for _, summary := range summaries {
		context += "\n- " + summary
	}
	return context
}
