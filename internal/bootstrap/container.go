package bootstrap

import (
	"log"

	"ai-docquery-be/internal/config"
	"ai-docquery-be/internal/controller"
	"ai-docquery-be/internal/pkg/logger"
	"ai-docquery-be/internal/repository/implementation"
	"ai-docquery-be/internal/repository/unitofwork"
	"ai-docquery-be/internal/service"
	"ai-docquery-be/pkg/chunker"
	"ai-docquery-be/pkg/embedding"
	"ai-docquery-be/pkg/llm"
	llmOllama "ai-docquery-be/pkg/llm/ollama"
	llmOpenai "ai-docquery-be/pkg/llm/openai"
	pktNats "ai-docquery-be/pkg/nats"
	"ai-docquery-be/pkg/parser"
	"ai-docquery-be/pkg/rag"
	"ai-docquery-be/pkg/searchengine"
	"ai-docquery-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	SearchController   controller.ISearchController
	RagController      controller.IRagController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS lifecycle events. The publisher is optional, the pipeline works
	// without a broker.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// 3. AI Gateways
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider("", cfg.Ai.OpenAIApiKey, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	var llmProvider llm.Provider
	if cfg.Ai.LLMProvider == "ollama" {
		llmProvider = llmOllama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel)
		log.Printf("[INFO] Using LLM Provider: OLLAMA (%s)", cfg.Ai.LLMModel)
	} else {
		llmProvider = llmOpenai.NewOpenAIProvider("", cfg.Ai.OpenAIApiKey, cfg.Ai.LLMModel)
		log.Printf("[INFO] Using LLM Provider: OPENAI (%s)", cfg.Ai.LLMModel)
	}

	// 4. Core Components
	splitter, err := chunker.NewSplitter(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap, true)
	if err != nil {
		log.Fatalf("[FATAL] Invalid chunking configuration: %v", err)
	}

	engine, err := searchengine.NewEngine(
		implementation.NewDocumentChunkRepository(db),
		implementation.NewDocumentRepository(db),
		embeddingProvider,
		searchengine.Options{
			SemanticWeight: cfg.Search.SemanticWeight,
			KeywordWeight:  cfg.Search.KeywordWeight,
			MinSimilarity:  cfg.Search.MinSimilarity,
		},
	)
	if err != nil {
		log.Fatalf("[FATAL] Invalid search configuration: %v", err)
	}

	orchestrator := rag.NewOrchestrator(engine, llmProvider, cfg.Search.MaxContextChars, cfg.Search.MaxSources)

	fileHandler, err := utils.NewFileHandler(cfg.Upload.Dir, int64(cfg.Upload.MaxSize), cfg.Upload.AllowedExtensions)
	if err != nil {
		log.Fatalf("[FATAL] Failed to prepare upload directory: %v", err)
	}

	textParser := parser.NewTextParser()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.IngestTopic, pubSub)
	documentService := service.NewDocumentService(uowFactory, publisherService, fileHandler, sysLogger)
	searchService := service.NewSearchService(engine, uowFactory, cfg.Search.TopK, sysLogger)
	ragService := service.NewRagService(orchestrator, cfg.Ai, sysLogger)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IngestTopic,
		uowFactory,
		embeddingProvider,
		splitter,
		textParser,
		natsPub,
		cfg.Ai.EmbeddingBatchSize,
		sysLogger,
	)

	// 6. Controllers
	return &Container{
		DocumentController: controller.NewDocumentController(documentService),
		SearchController:   controller.NewSearchController(searchService),
		RagController:      controller.NewRagController(ragService),
		ConsumerService:    consumerService,
		Logger:             sysLogger,
	}
}
