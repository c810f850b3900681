package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/config"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/controller"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/pkg/logger"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/unitofwork"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/service"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/pipeline"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/router"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/stage"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/summary"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm/factory"
	pkgNats "github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/nats"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/prompt"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/usage"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	ChatController    controller.IChatController
	SummaryController controller.ISummaryController

	// Background Services (Exposed for main.go to run)
	SummaryWorkerService service.ISummaryWorkerService
	RetentionService     service.IRetentionService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	aiLogger := log.New(log.Writer(), "", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	limiter := usage.NewLimiter(rdb, cfg.Chat.DailyMessageLimit, aiLogger)

	// 3. Conversation Stack
	// Prompt templates come from the remote store when configured, with
	// the builtin registry as both default and fetch fallback.
	var promptStore prompt.Store = prompt.NewRegistry()
	if cfg.Prompts.RemoteURL != "" {
		promptStore = prompt.NewRemoteStore(cfg.Prompts.RemoteURL, cfg.Prompts.APIKey, promptStore)
		log.Printf("[INFO] Using remote prompt store: %s", cfg.Prompts.RemoteURL)
	}

	llmProvider, err := factory.NewLLMProvider(context.Background(), factory.ProviderConfig{
		Type:    cfg.Ai.Provider,
		Model:   cfg.Ai.Model,
		Region:  cfg.Ai.Region,
		APIKey:  cfg.Ai.OpenAIAPIKey,
		BaseURL: cfg.Ai.OpenAIBaseURL,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	invoker := stage.NewInvoker(promptStore, llmProvider)
	chatPipeline := pipeline.NewPipeline(
		router.NewRouter(invoker, aiLogger),
		pipeline.NewCoach(invoker, aiLogger),
		pipeline.NewFallback(invoker, aiLogger),
		aiLogger,
	)
	greeter := pipeline.NewGreeter(llmProvider, aiLogger)
	summarizer := summary.NewSummarizer(llmProvider, aiLogger)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Chat.SummaryTopicName)
	authService := service.NewAuthService(uowFactory, natsPub, sysLogger, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)
	summaryService := service.NewSummaryService(uowFactory, summarizer, cfg.Chat.HistoryWindow, sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		chatPipeline,
		greeter,
		summaryService,
		publisherService,
		limiter,
		natsPub,
		sysLogger,
		service.ChatSettings{
			HistoryWindow:    cfg.Chat.HistoryWindow,
			SummaryThreshold: cfg.Chat.SummaryThreshold,
			RetentionDays:    cfg.Chat.RetentionDays,
		},
	)

	summaryWorkerService := service.NewSummaryWorkerService(
		pubSub,
		cfg.Chat.SummaryTopicName,
		summaryService,
		natsPub,
		cfg.Chat.RetentionDays,
		sysLogger,
	)
	retentionService := service.NewRetentionService(uowFactory, cfg.Chat.RetentionSchedule, sysLogger)

	// Audit trail consumes the same events the services publish
	if natsSub != nil {
		auditService := service.NewEventAuditService(natsSub, sysLogger)
		if err := auditService.Start(); err != nil {
			log.Printf("[WARN] Failed to start event audit consumer: %v", err)
		}
	}

	// 5. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		ChatController:    controller.NewChatController(chatService),
		SummaryController: controller.NewSummaryController(summaryService),

		SummaryWorkerService: summaryWorkerService,
		RetentionService:     retentionService,
	}
}
