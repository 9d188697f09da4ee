package bootstrap

import (
	"context"
	"fmt"
	"time"

	"cubie-assistant/internal/config"
	"cubie-assistant/internal/controller"
	"cubie-assistant/internal/handler"
	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/internal/pkg/mailer"
	"cubie-assistant/internal/repository/memory"
	"cubie-assistant/internal/repository/rediscache"
	"cubie-assistant/internal/repository/unitofwork"
	"cubie-assistant/internal/service"
	"cubie-assistant/internal/websocket"
	"cubie-assistant/pkg/ai/router"
	"cubie-assistant/pkg/analytics"
	"cubie-assistant/pkg/chartstore"
	"cubie-assistant/pkg/embedding"
	"cubie-assistant/pkg/events"
	"cubie-assistant/pkg/llm/factory"
	pktNats "cubie-assistant/pkg/nats"
	"cubie-assistant/pkg/navigation"
	"cubie-assistant/pkg/rag/help"
	"cubie-assistant/pkg/rag/index"
	"cubie-assistant/pkg/rag/response"
	"cubie-assistant/pkg/rag/search"
	"cubie-assistant/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	AssistantController controller.IAssistantController
	ChatHandler         *handler.ChatHandler

	AssistantService service.IAssistantService
	IndexerService   service.IIndexerService
	Classifier       *router.Classifier
	Navigation       *navigation.Resolver

	// Background services, started by main.
	EventRelay   *service.EventRelayService
	WebSocketHub *websocket.Hub

	closers []func()
}

// NewContainer wires every component. Only the LLM and embedding providers
// and the navigation table are fatal; the brokers degrade to local-only
// operation when unreachable.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		sysLogger,
	)

	// 2. Model providers
	llmProvider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider:       cfg.Ai.LLMProvider,
		Model:          cfg.Ai.LLMModel,
		FallbackModels: cfg.Ai.LLMFallbackModels,
		BaseURL:        cfg.Ai.OllamaBaseURL,
		APIKey:         cfg.Ai.GeminiAPIKey,
		Timeout:        cfg.Ai.CallTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel,
	})

	embeddingProvider, err := embedding.NewProvider(ctx, cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel, cfg.Ai.GeminiAPIKey, cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingDimensions)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "Embedding provider ready", map[string]interface{}{
		"provider": cfg.Ai.EmbeddingProvider, "model": cfg.Ai.EmbeddingModel,
	})

	// 3. Infrastructure
	var publisher events.Publisher = events.NopPublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS publisher unavailable, events stay local", map[string]interface{}{"error": err})
	} else {
		publisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS subscriber unavailable, event relay disabled", map[string]interface{}{"error": err})
	} else {
		c.closers = append(c.closers, natsSub.Close)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		sysLogger.Warn("BOOTSTRAP", "Redis unreachable", map[string]interface{}{"error": err})
	}
	cancel()
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	var sessions store.SessionStore
	switch cfg.App.SessionStore {
	case "redis":
		sessions = rediscache.NewSessionRepository(rdb, cfg.Assistant.SessionTTL)
	default:
		sessions = memory.NewSessionRepository(cfg.Assistant.SessionTTL)
	}

	charts, err := newChartStore(ctx, cfg.Charts)
	if err != nil {
		return nil, fmt.Errorf("chart store: %w", err)
	}

	// 4. Navigation
	table, err := navigation.LoadTable(cfg.Assistant.NavigationTable)
	if err != nil {
		return nil, fmt.Errorf("navigation table: %w", err)
	}
	resolver := navigation.NewResolver(table, cfg.Assistant.NavigationMinimum)
	classifier := router.NewClassifier(resolver, sysLogger, router.WithModel(router.NewLLMModeClassifier(llmProvider)))

	// 5. Help retrieval
	idx := index.New()
	searchConfig := search.DefaultConfig()
	searchConfig.Floor = cfg.Assistant.SimilarityFloor
	searchConfig.TopK = cfg.Assistant.RetrievalTopK
	helpEngine := help.NewEngine(
		search.NewOrchestrator(embeddingProvider, idx, sysLogger),
		response.NewGenerator(llmProvider, sysLogger),
		table,
		help.Config{Search: searchConfig, HelpBaseURL: cfg.Assistant.HelpBaseURL},
		sysLogger,
	)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })
	indexer := service.NewIndexerService(pubSub, uowFactory, embeddingProvider, idx, publisher, service.IndexerConfig{}, sysLogger)
	if n, err := indexer.Reload(ctx); err != nil {
		sysLogger.Warn("BOOTSTRAP", "Help corpus not loaded, help answers will be empty until a rebuild", map[string]interface{}{"error": err})
	} else {
		sysLogger.Info("BOOTSTRAP", "Help corpus loaded", map[string]interface{}{"chunks": n})
	}

	// 6. Analytics
	catalog, err := analytics.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("analytics catalog: %w", err)
	}
	analyticsConfig := analytics.DefaultConfig()
	analyticsConfig.DBTimeout = cfg.Assistant.DBTimeout
	analyticsConfig.MailTimeout = cfg.Assistant.MailTimeout
	analyticsOrchestrator := analytics.NewOrchestrator(
		catalog,
		llmProvider,
		service.NewAnalyticsBackend(uowFactory),
		charts,
		emailService,
		publisher,
		analyticsConfig,
		sysLogger,
	)

	// 7. Assistant
	assistantService := service.NewAssistantService(
		sessions,
		classifier,
		helpEngine,
		analyticsOrchestrator,
		resolver,
		table,
		service.AssistantServiceConfig{StickyTurns: cfg.Assistant.StickyTurns},
		sysLogger,
	)

	// 8. Transport
	wsHub := websocket.NewHub(rdb, sysLogger)
	if natsSub != nil {
		c.EventRelay = service.NewEventRelayService(natsSub, wsHub, indexer, sysLogger)
	}

	c.AssistantController = controller.NewAssistantController(assistantService, indexer, charts)
	c.ChatHandler = handler.NewChatHandler(assistantService, wsHub, sysLogger)
	c.AssistantService = assistantService
	c.IndexerService = indexer
	c.Classifier = classifier
	c.Navigation = resolver
	c.WebSocketHub = wsHub

	return c, nil
}

func newChartStore(ctx context.Context, cfg config.ChartConfig) (analytics.ChartStore, error) {
	if cfg.Store == "s3" {
		return chartstore.NewS3Store(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix, cfg.PublicBaseURL)
	}
	return chartstore.NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
}

// Close releases broker and cache connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
