package bootstrap

import (
	"context"
	"log"

	"medrag-be/internal/config"
	"medrag-be/internal/controller"
	"medrag-be/internal/pkg/logger"
	"medrag-be/internal/pkg/mailer"
	"medrag-be/internal/repository/memory"
	"medrag-be/internal/repository/unitofwork"
	"medrag-be/internal/service"
	"medrag-be/internal/websocket"
	"medrag-be/pkg/embedding"
	"medrag-be/pkg/llm/factory"
	pktNats "medrag-be/pkg/nats"
	ragcontext "medrag-be/pkg/rag/context"
	"medrag-be/pkg/rag/evidence"
	"medrag-be/pkg/rag/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CaseController     controller.ICaseController
	ChatController     controller.IChatController
	AuthController     controller.IAuthController
	FeedbackController controller.IFeedbackController

	// WebSocket
	ChatWsHandler *websocket.ChatHandler

	// Background services (exposed for main.go to run)
	NotificationService service.INotificationService

	// Infrastructure shared with the server layer
	Redis  *redis.Client
	Logger logger.ILogger
	DB     *gorm.DB
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	// Websocket traffic carries prompt/response payloads; it logs to its own
	// file so the main log stays readable.
	chatLogger := logger.NewIsolatedLogger(cfg.App.ChatLogFilePath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Reasoning pipeline
	table := evidence.DefaultTable()
	if cfg.Rag.EvidenceTablePath != "" {
		loaded, err := evidence.LoadTable(cfg.Rag.EvidenceTablePath)
		if err != nil {
			log.Printf("[WARN] Failed to load evidence table from %s: %v (using built-in)", cfg.Rag.EvidenceTablePath, err)
		} else {
			table = loaded
		}
	}
	decoder := evidence.NewDecoder(table)
	assembler := ragcontext.NewAssembler(decoder)

	fragmentRepo := uowFactory.NewUnitOfWork(context.Background()).FragmentRepository()
	retriever := retrieval.NewClient(embeddingProvider, newFragmentIndex(fragmentRepo))

	// 5. Infrastructure
	var natsPub *pktNats.Publisher
	if cfg.App.NatsEnabled {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

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

	verificationLedger := memory.NewVerificationRepository()

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.NoticeTopic, pubSub)
	notificationService := service.NewNotificationService(
		pubSub,
		cfg.Keys.NoticeTopic,
		emailService,
		sysLogger,
	)

	caseService := service.NewCaseService(
		uowFactory,
		retriever,
		assembler,
		llmProvider,
		publisherService,
		natsPub,
		sysLogger,
	)
	chatService := service.NewChatService(
		uowFactory,
		retriever,
		assembler,
		llmProvider,
		sysLogger,
	)
	authService := service.NewAuthService(verificationLedger, emailService, cfg.Keys.JWTSecret)
	feedbackService := service.NewFeedbackService(uowFactory)

	// 7. Controllers
	return &Container{
		CaseController:      controller.NewCaseController(caseService),
		ChatController:      controller.NewChatController(chatService),
		AuthController:      controller.NewAuthController(authService),
		FeedbackController:  controller.NewFeedbackController(feedbackService),
		ChatWsHandler:       websocket.NewChatHandler(chatService, chatLogger),
		NotificationService: notificationService,
		Redis:               rdb,
		Logger:              sysLogger,
		DB:                  db,
	}
}
