package bootstrap

import (
	"log"

	"clinical-intel-be/internal/config"
	"clinical-intel-be/internal/controller"
	"clinical-intel-be/internal/pkg/logger"
	"clinical-intel-be/internal/repository/unitofwork"
	"clinical-intel-be/internal/service"
	"clinical-intel-be/pkg/embedding"
	"clinical-intel-be/pkg/llm/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NoteController controller.INoteController
	ChatController controller.IChatController

	// Background services (exposed for main.go to run)
	AuditConsumerService service.IAuditConsumerService

	// System logger (exposed for flushing on shutdown)
	SysLogger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

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
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewHashProvider()
		log.Printf("[INFO] Using Embedding Provider: HASH (deterministic)")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.GroqBaseURL,
		cfg.Ai.GroqApiKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	sysLogger.Info("bootstrap", "Container wired", map[string]interface{}{
		"llm_provider":       cfg.Ai.LLMProvider,
		"embedding_provider": cfg.Ai.EmbeddingProvider,
	})

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.AuditTopic, pubSub)
	auditConsumerService := service.NewAuditConsumerService(pubSub, cfg.App.AuditTopic, uowFactory)

	noteService := service.NewNoteService(uowFactory, publisherService)
	analysisService := service.NewAnalysisService(
		uowFactory,
		llmProvider,
		embeddingProvider,
		publisherService,
		cfg.Rag.ChunkMaxChars,
	)
	chatService := service.NewChatService(
		uowFactory,
		embeddingProvider,
		llmProvider,
		publisherService,
		cfg.Rag.TopK,
	)

	// 5. Controllers
	return &Container{
		NoteController: controller.NewNoteController(noteService, analysisService),
		ChatController: controller.NewChatController(chatService),

		AuditConsumerService: auditConsumerService,
		SysLogger:            sysLogger,
	}
}
