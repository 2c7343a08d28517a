package bootstrap

import (
	"context"
	"log"

	"github.com/Unshaft/StudyBuddy/internal/config"
	"github.com/Unshaft/StudyBuddy/internal/controller"
	"github.com/Unshaft/StudyBuddy/internal/handler"
	"github.com/Unshaft/StudyBuddy/internal/pkg/logger"
	"github.com/Unshaft/StudyBuddy/internal/repository/implementation"
	"github.com/Unshaft/StudyBuddy/internal/repository/memory"
	"github.com/Unshaft/StudyBuddy/internal/service"
	"github.com/Unshaft/StudyBuddy/internal/websocket"
	"github.com/Unshaft/StudyBuddy/pkg/agent"
	"github.com/Unshaft/StudyBuddy/pkg/embedding/voyage"
	"github.com/Unshaft/StudyBuddy/pkg/llm"
	"github.com/Unshaft/StudyBuddy/pkg/llm/anthropic"
	"github.com/Unshaft/StudyBuddy/pkg/retrieval"
	"github.com/Unshaft/StudyBuddy/pkg/vision"

	pktNats "github.com/Unshaft/StudyBuddy/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CorrectionController controller.ICorrectionController
	CourseController     controller.ICourseController
	FeedbackController   controller.IFeedbackController

	// Background Services (Exposed for main.go to run)
	IngestService service.IIngestService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus (in-process job queue for ingestion)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider := voyage.NewVoyageProvider(cfg.Keys.Voyage, cfg.Agent.EmbeddingModel)
	log.Printf("[INFO] Using Embedding Provider: VOYAGE (%s)", cfg.Agent.EmbeddingModel)

	correctorProvider := anthropic.NewAnthropicProvider(cfg.Keys.Anthropic, cfg.Agent.CorrectionModel)
	judgeProvider := anthropic.NewAnthropicProvider(cfg.Keys.Anthropic, cfg.Agent.EvaluatorModel)
	visionProvider := anthropic.NewAnthropicProvider(cfg.Keys.Anthropic, cfg.Agent.VisionModel)
	log.Printf("[INFO] Using LLM Provider: ANTHROPIC (correction=%s, evaluator=%s, vision=%s)",
		cfg.Agent.CorrectionModel, cfg.Agent.EvaluatorModel, cfg.Agent.VisionModel)

	extractor := vision.NewExtractor(visionProvider)

	// 4. Repositories
	courseRepo := implementation.NewCourseRepository(db)
	chunkRepo := implementation.NewCourseChunkRepository(db)
	feedbackRepo := implementation.NewFeedbackRepository(db)
	sessionRepo := memory.NewSessionRepository()

	contextStore := retrieval.NewVectorStore(embeddingProvider, implementation.NewChunkSearcher(chunkRepo))

	// 5. Correction Pipeline
	correctorOptions := []llm.Option{llm.WithMaxTokens(cfg.Agent.SpecialistMaxTokens)}
	judgeOptions := []llm.Option{llm.WithMaxTokens(cfg.Agent.EvaluatorMaxTokens)}

	engine := agent.NewEngine(
		agent.Collaborators{
			Vision:    extractor,
			Store:     contextStore,
			Corrector: correctorProvider,
			Judge:     judgeProvider,
		},
		agent.Config{
			TopK:               cfg.Agent.TopK,
			MaxRetrievalRounds: cfg.Agent.MaxRetrievalRounds,
			FallbackScore:      cfg.Agent.EvaluatorFallbackScore,
			CorrectorOptions:   correctorOptions,
			JudgeOptions:       judgeOptions,
		},
	)

	// 6. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 7. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.CourseIngestTopic)
	ingestService := service.NewIngestService(
		pubSub,
		cfg.Keys.CourseIngestTopic,
		courseRepo,
		chunkRepo,
		extractor,
		embeddingProvider,
		natsPub,
		cfg.Agent.ChunkSize,
		cfg.Agent.ChunkOverlap,
	)

	correctionService := service.NewCorrectionService(
		engine,
		contextStore,
		correctorProvider,
		sessionRepo,
		cfg.Agent.TopK,
		correctorOptions,
		sysLogger,
	)
	courseService := service.NewCourseService(courseRepo, chunkRepo, publisherService, sysLogger)
	feedbackService := service.NewFeedbackService(feedbackRepo, sessionRepo, sysLogger)

	// 8. Notification Relay
	notifHandler := handler.NewNotificationHandler(natsSub, wsHub, wsLogger)

	return &Container{
		CorrectionController: controller.NewCorrectionController(correctionService),
		CourseController:     controller.NewCourseController(courseService),
		FeedbackController:   controller.NewFeedbackController(feedbackService),

		IngestService: ingestService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
