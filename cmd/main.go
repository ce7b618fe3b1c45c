package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockai/internal/adapters/ai"
	"stockai/internal/adapters/config"
	"stockai/internal/adapters/errors/noop"
	"stockai/internal/adapters/errors/sentry"
	"stockai/internal/adapters/kafka"
	"stockai/internal/adapters/redis"
	"stockai/internal/agents"
	"stockai/internal/api"
	"stockai/internal/api/health"
	"stockai/internal/api/ws"
	"stockai/internal/events"
	"stockai/internal/metrics"
	"stockai/internal/services/analysis"
	"stockai/internal/services/nlu"
	quotesvc "stockai/internal/services/quote"
	"stockai/internal/services/sentiment"
	"stockai/internal/workers"
	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	// Initialize error tracker
	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	// Register Prometheus metrics
	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis-backed quote cache (optional)
	var quoteCache *quotesvc.Cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(cfg.Redis)
		if err != nil {
			log.Warnf("Redis unavailable, running without quote cache: %v", err)
		} else {
			defer redisClient.Close()
			quoteCache = quotesvc.NewCache(redisClient)
			log.Info("✓ Redis quote cache initialized")
		}
	}

	// Kafka event publisher (optional)
	var publisher *events.Publisher
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
		defer producer.Close()
		publisher = events.NewPublisher(producer)
		log.Info("✓ Kafka event publisher initialized")
	}

	// Generative AI recommender (optional, template fallback otherwise)
	var recommender sentiment.Recommender
	if provider, err := ai.NewProvider(ctx, cfg.AI); err != nil {
		log.Warnf("No AI provider available, using template recommendations: %v", err)
	} else {
		recommender = sentiment.NewDelegateRecommender(provider, cfg.AI.RequestTimeout)
		log.Infof("✓ AI recommender initialized (%s)", provider.Name())
	}

	// Data source agents
	fetchTimeout := cfg.DataSources.FetchTimeout
	sources := []agents.SourceAgent{
		agents.NewDisclosureAgent(cfg.DataSources.DartAPIKey, fetchTimeout),
		agents.NewFinancialAgent(cfg.DataSources.DartAPIKey, fetchTimeout),
		agents.NewNewsAgent(cfg.DataSources.NewsAPIKey, fetchTimeout),
		agents.NewRedditAgent(cfg.DataSources.RedditClientID, cfg.DataSources.RedditClientSecret, fetchTimeout),
		agents.NewStockTwitsAgent(),
	}
	priceAgent := agents.NewPriceAgent(quoteCache, fetchTimeout)
	cryptoAgent := agents.NewCryptoAgent(fetchTimeout)

	// Analysis pipeline
	orchestrator := analysis.NewOrchestrator(
		nlu.NewParser(),
		sources,
		sentiment.NewScorer(),
		sentiment.NewAggregator(recommender),
		priceAgent,
		cryptoAgent,
		publisher,
		analysis.Options{FetchTimeout: fetchTimeout},
	)

	// HTTP and WebSocket surface
	hub := ws.NewHub(orchestrator)
	var healthRedis *health.Handler
	if redisClient != nil {
		healthRedis = health.New(log, redisClient.Client(), cfg.App.Name, version)
	} else {
		healthRedis = health.New(log, nil, cfg.App.Name, version)
	}

	server := api.NewServer(api.ServerConfig{
		Port:        cfg.Server.Port,
		ServiceName: cfg.App.Name,
		Version:     version,
	}, healthRedis, api.NewAnalyzeHandler(orchestrator), hub, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Errorf("HTTP server error: %v", err)
			cancel()
		}
	}()

	// Background workers
	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(workers.NewPriceTrackerWorker(
		priceAgent,
		hub,
		publisher,
		nil,
		cfg.Workers.PriceTrackerInterval,
		cfg.Workers.PriceTrackerEnabled,
	))
	if err := scheduler.Start(ctx); err != nil {
		log.Errorf("Failed to start scheduler: %v", err)
	}

	log.Info("System initialized successfully")

	waitForShutdown(ctx, cancel, server, scheduler, errorTracker, log)
}

const version = "1.0.0"

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	server *api.Server,
	scheduler *workers.Scheduler,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Shutting down...")
	case <-ctx.Done():
		log.Info("Shutting down after fatal error...")
	}

	cancel()

	if scheduler.IsRunning() {
		if err := scheduler.Stop(); err != nil {
			log.Warnf("Scheduler shutdown: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("Server shutdown: %v", err)
	}

	// Flush error tracker
	if errorTracker != nil {
		if err := errorTracker.Flush(shutdownCtx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
