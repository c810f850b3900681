package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/constant"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/dto"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/pkg/logger"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/events"
	pkgNats "github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/nats"
)

type ISummaryWorkerService interface {
	Consume(ctx context.Context) error
}

// summaryWorkerService drains summary jobs off the in-process bus so the
// model round trip never sits on a chat request.
type summaryWorkerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	summaryService ISummaryService
	eventPublisher *pkgNats.Publisher
	retentionDays  int
	logger         logger.ILogger
}

func NewSummaryWorkerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	summaryService ISummaryService,
	eventPublisher *pkgNats.Publisher,
	retentionDays int,
	log logger.ILogger,
) ISummaryWorkerService {
	return &summaryWorkerService{
		pubSub:         pubSub,
		topicName:      topicName,
		summaryService: summaryService,
		eventPublisher: eventPublisher,
		retentionDays:  retentionDays,
		logger:         log,
	}
}

func (w *summaryWorkerService) Consume(ctx context.Context) error {
	messages, err := w.pubSub.Subscribe(ctx, w.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			w.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (w *summaryWorkerService) processMessage(ctx context.Context, msg *message.Message) {
	var job dto.SummaryJobMessage
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		w.logger.Error(constant.ModuleSummary, "Failed to unmarshal summary job", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	w.logger.Info(constant.ModuleSummary, "Processing summary job", map[string]interface{}{
		"session_id": job.SessionId.String(),
	})

	if err := w.summaryService.GenerateAndStore(ctx, job.UserId, job.SessionId, w.retentionDays); err != nil {
		w.logger.Error(constant.ModuleSummary, "Failed to store session summary", map[string]interface{}{
			"session_id": job.SessionId.String(),
			"error":      err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	if w.eventPublisher != nil {
		if err := w.eventPublisher.Publish(ctx, events.NewSummaryCreated(job.Username, job.SessionId.String())); err != nil {
			w.logger.Warn(constant.ModuleSummary, "Failed to publish summary event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
