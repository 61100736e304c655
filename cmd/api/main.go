package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/alfredhq/alfred/internal/adapters/cache"
	"github.com/alfredhq/alfred/internal/adapters/database"
	"github.com/alfredhq/alfred/internal/adapters/events"
	"github.com/alfredhq/alfred/internal/adapters/search"
	"github.com/alfredhq/alfred/internal/api/handlers"
	"github.com/alfredhq/alfred/internal/api/middleware"
	"github.com/alfredhq/alfred/internal/api/routes"
	"github.com/alfredhq/alfred/internal/application/services"
	"github.com/alfredhq/alfred/internal/domain/providers"
	"github.com/alfredhq/alfred/internal/domain/repositories"
	"github.com/alfredhq/alfred/internal/infrastructure/clients/postgres"
	"github.com/alfredhq/alfred/internal/infrastructure/clients/redis"
	"github.com/alfredhq/alfred/internal/infrastructure/clients/typesense"
	"github.com/alfredhq/alfred/internal/infrastructure/observability"
	"github.com/alfredhq/alfred/pkg/config"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry export is optional
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure database schema")
	}

	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		// Continue without Redis; caching and live broadcasts degrade gracefully
		log.Warn().Err(err).Msg("failed to initialize Redis client")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Typesense client")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized")
	}

	// Adapters
	projectAdapter := database.NewProjectAdapter(pgClient)
	communicationAdapter := database.NewCommunicationAdapter(pgClient)
	actionAdapter := database.NewActionAdapter(pgClient)
	riskAdapter := database.NewRiskAdapter(pgClient)
	weatherAdapter := database.NewWeatherAdapter(pgClient)

	var searchRepo repositories.CommunicationSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := typesenseClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		searchRepo = adapter
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized")
	} else {
		log.Warn().Msg("event bus disabled (Redis not available)")
	}

	// Services
	notifier := services.NewNotifier(eventBus, metrics)
	projectService := services.NewProjectService(projectAdapter)
	communicationService := services.NewCommunicationService(communicationAdapter, searchRepo)
	actionService := services.NewActionService(actionAdapter, riskAdapter)
	weatherService := services.NewWeatherService(weatherAdapter)
	reportService := services.NewReportService(projectAdapter, communicationAdapter, actionAdapter, weatherAdapter)

	// Synthetic feed keeps dashboards moving between real mutations
	broadcaster := services.NewSyntheticBroadcaster(
		notifier,
		clockwork.NewRealClock(),
		cfg.Broadcast.Interval,
		cfg.Broadcast.ProjectRef,
	)
	go broadcaster.Run(ctx)
	log.Info().Dur("interval", cfg.Broadcast.Interval).Msg("synthetic broadcaster started")

	// Handlers
	projectHandler := handlers.NewProjectHandler(projectService, reportService, notifier)
	communicationHandler := handlers.NewCommunicationHandler(communicationService, notifier)
	actionHandler := handlers.NewActionHandler(actionService, notifier)
	weatherHandler := handlers.NewWeatherHandler(weatherService, notifier)
	streamHandler := handlers.NewStreamHandler(eventBus, metrics)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Info().Msg("cache middleware initialized")
	}

	rateLimiter := middleware.NewRateLimiter(
		cfg.RateLimit.MaxRequests,
		cfg.RateLimit.Window,
		cfg.RateLimit.MinSpacing,
	)

	router := routes.NewRouter(
		projectHandler,
		communicationHandler,
		actionHandler,
		weatherHandler,
		streamHandler,
		cacheMiddleware,
		rateLimiter,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: SSE connections are long-lived
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
