package service

import (
	"context"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/constant"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/pkg/logger"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/events"
	pkgNats "github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/nats"
)

type IEventAuditService interface {
	Start() error
}

// eventAuditService mirrors every chat event into the structured log.
// Payloads carry identifiers only, so the trail stays content-free.
type eventAuditService struct {
	subscriber *pkgNats.Subscriber
	logger     logger.ILogger
}

func NewEventAuditService(subscriber *pkgNats.Subscriber, log logger.ILogger) IEventAuditService {
	return &eventAuditService{
		subscriber: subscriber,
		logger:     log,
	}
}

func (s *eventAuditService) Start() error {
	return s.subscriber.Subscribe("chat.>", "chat-audit", func(ctx context.Context, event events.Event) error {
		s.logger.Info(constant.ModuleAudit, "Event observed", map[string]interface{}{
			"type":    event.EventType(),
			"payload": event.Payload(),
		})
		return nil
	})
}
