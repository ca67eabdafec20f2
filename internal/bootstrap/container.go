package bootstrap

import (
	"context"
	"log"
	"time"

	"lost-london-agent/internal/config"
	"lost-london-agent/internal/controller"
	"lost-london-agent/internal/pkg/logger"
	"lost-london-agent/internal/repository/implementation"
	sessmem "lost-london-agent/internal/repository/memory"
	"lost-london-agent/internal/service"
	"lost-london-agent/pkg/embedding"
	"lost-london-agent/pkg/events"
	"lost-london-agent/pkg/guide/dispatch"
	"lost-london-agent/pkg/guide/prefetch"
	"lost-london-agent/pkg/guide/search"
	"lost-london-agent/pkg/llm/factory"
	"lost-london-agent/pkg/memory"
	"lost-london-agent/pkg/teaser"

	pktNats "lost-london-agent/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const teaserRebuildTopic = "teaser.rebuild"

type Container struct {
	// Controllers
	ChatController  controller.IChatController
	AdminController controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for shutdown
	Logger  *logger.ZapLogger
	NatsPub *pktNats.Publisher
	NatsSub *pktNats.Subscriber
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := sysLogger.StdLogger()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. External Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewVoyageProvider(cfg.Keys.Voyage, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: VOYAGE (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var memoryProvider memory.Provider
	if cfg.Keys.MemoryBaseURL != "" && cfg.Keys.MemoryApiKey != "" {
		memoryProvider = memory.NewGraphProvider(cfg.Keys.MemoryBaseURL, cfg.Keys.MemoryApiKey)
		log.Printf("[INFO] User memory graph enabled (%s)", cfg.Keys.MemoryBaseURL)
	} else {
		memoryProvider = memory.NewNoopProvider()
		log.Printf("[INFO] User memory graph disabled (no credential)")
	}

	// NATS analytics bus. Optional: a dead broker costs a warning, not boot.
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

	// 4. Repositories
	articleRepo := implementation.NewArticleRepository(db)
	profileRepo := implementation.NewUserProfileRepository(db)

	sessionStore, err := sessmem.NewSessionStore(cfg.Guide.SessionCapacity)
	if err != nil {
		log.Fatalf("[FATAL] Failed to create session store: %v", err)
	}

	// 5. Conversation Core
	teaserCache := teaser.NewCache()
	searcher := search.NewOrchestrator(embeddingProvider, articleRepo, stdLogger)
	prefetcher := prefetch.NewManager(
		time.Duration(cfg.Guide.PrefetchTTLMinutes)*time.Minute,
		30*time.Second,
		stdLogger,
	)

	dispatcher := dispatch.NewController(
		sessionStore,
		teaserCache,
		searcher,
		prefetcher,
		llmProvider,
		memoryProvider,
		profileRepo,
		dispatch.Config{
			HistoryMaxTurns:    cfg.Guide.HistoryMaxTurns,
			HistoryCharBudget:  cfg.Guide.HistoryCharBudget,
			ResponseWordBudget: cfg.Guide.ResponseWordBudget,
			Search: search.Config{
				SimilarityFloor: cfg.Guide.SimilarityFloor,
				TopK:            cfg.Guide.SearchTopK,
			},
		},
		stdLogger,
	)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, teaserRebuildTopic)
	guideService := service.NewGuideService(
		dispatcher,
		sessionStore,
		articleRepo,
		teaserCache,
		publisherService,
		natsPub,
		sysLogger,
	)
	consumerService := service.NewConsumerService(pubSub, teaserRebuildTopic, guideService)

	// Initial teaser index. A failure here is survivable: lookups miss and
	// every query takes the slow path until a rebuild succeeds.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if count, err := guideService.RebuildTeaserCache(ctx); err != nil {
		log.Printf("[WARN] Initial teaser cache load failed: %v", err)
	} else {
		log.Printf("[INFO] Teaser cache loaded with %d keywords", count)
	}

	// The ingestion pipeline announces corpus changes over NATS; map them to
	// internal rebuild requests.
	if natsSub != nil {
		err := natsSub.Subscribe("events.ARTICLES_UPDATED", "lost-london-teaser", func(ctx context.Context, _ events.Event) error {
			_, err := guideService.RebuildTeaserCache(ctx)
			return err
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to article updates: %v", err)
		}
	}

	// 7. Controllers
	chatController := controller.NewChatController(guideService)
	adminController := controller.NewAdminController(guideService)

	return &Container{
		ChatController:  chatController,
		AdminController: adminController,
		ConsumerService: consumerService,
		Logger:          sysLogger,
		NatsPub:         natsPub,
		NatsSub:         natsSub,
	}
}
