package bootstrap

import (
	"context"
	"log"
	"time"

	"pm-assist-be/internal/config"
	"pm-assist-be/internal/controller"
	"pm-assist-be/internal/handler"
	"pm-assist-be/internal/pkg/logger"
	"pm-assist-be/internal/repository/memory"
	"pm-assist-be/internal/repository/unitofwork"
	"pm-assist-be/internal/service"
	"pm-assist-be/internal/websocket"
	"pm-assist-be/pkg/askai/retry"
	"pm-assist-be/pkg/clipboard"
	"pm-assist-be/pkg/llm/factory"
	"pm-assist-be/pkg/notify"

	pktNats "pm-assist-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AskAiController controller.IAskAiController

	// Background Services (Exposed for main.go to run)
	NotificationService *service.NotificationService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Toast Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	toastBus := notify.NewBus(watermillLogger)

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	generationService := service.NewGenerationService(uowFactory, llmProvider, sysLogger)

	policy := retry.NewPolicy()
	if cfg.AskAi.MaxRetryAttempts > 0 {
		policy.MaxAttempts = cfg.AskAi.MaxRetryAttempts
	}
	if cfg.AskAi.AttemptTimeoutSec > 0 {
		policy.AttemptTimeout = time.Duration(cfg.AskAi.AttemptTimeoutSec) * time.Second
	}

	askAiService := service.NewAskAiService(
		memory.NewManagerRegistry(),
		generationService,
		toastBus,
		natsPub,
		clipboard.NewMemory(),
		policy,
		cfg.AskAi.VisibleItems,
		cfg.AskAi.LoadMoreIncrement,
	)

	notifService := service.NewNotificationService(toastBus, natsSub, wsHub, wsLogger)

	// Handler
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	return &Container{
		AskAiController:     controller.NewAskAiController(askAiService),
		NotificationService: notifService,
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
