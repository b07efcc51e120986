package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yurift/drift/internal/adapters/cache"
	"github.com/yurift/drift/internal/adapters/database"
	"github.com/yurift/drift/internal/adapters/providers/catchphrase"
	"github.com/yurift/drift/internal/adapters/ratelimit"
	"github.com/yurift/drift/internal/adapters/search"
	"github.com/yurift/drift/internal/api/handlers"
	"github.com/yurift/drift/internal/api/routes"
	"github.com/yurift/drift/internal/application/services"
	"github.com/yurift/drift/internal/domain/providers"
	"github.com/yurift/drift/internal/domain/repositories"
	badgerclient "github.com/yurift/drift/internal/infrastructure/clients/badger"
	"github.com/yurift/drift/internal/infrastructure/clients/openai"
	"github.com/yurift/drift/internal/infrastructure/clients/postgres"
	"github.com/yurift/drift/internal/infrastructure/clients/redis"
	"github.com/yurift/drift/internal/infrastructure/clients/typesense"
	"github.com/yurift/drift/internal/infrastructure/observability"
	"github.com/yurift/drift/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
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
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	dependencies := map[string]handlers.Pinger{}

	// PostgreSQL backs the default candidate store and the default result cache
	var pgClient *postgres.Client
	if cfg.Search.CandidateStore == "postgres" || cfg.Cache.Backend == "postgres" {
		pgClient, err = postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()
		dependencies["postgres"] = pgClient
	}

	var redisClient *redis.Client
	if cfg.RateLimit.Backend == "redis" || cfg.Cache.Backend == "redis" {
		redisClient, err = redis.NewClient(&cfg.Redis)
		if err != nil {
			if cfg.Cache.Backend == "redis" {
				log.Fatal().Err(err).Msg("failed to initialize Redis client")
			}
			log.Warn().Err(err).Msg("Redis unavailable, rate limiting falls back to in-process counters")
		} else {
			defer redisClient.Close()
			dependencies["redis"] = redisClient
		}
	}

	// Candidate store
	var candidates repositories.CandidateSource
	switch cfg.Search.CandidateStore {
	case "typesense":
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Typesense client")
		}
		if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		candidates = search.NewTypesenseAdapter(tsClient, metrics)
		dependencies["typesense"] = tsClient
	default:
		candidates = database.NewOnsenAdapter(pgClient, metrics)
	}

	// Result cache storage
	var cacheRepo repositories.SearchCacheRepository
	switch cfg.Cache.Backend {
	case "redis":
		cacheRepo = cache.NewKVSearchCache(cache.NewRedisKVStore(redisClient))
	case "badger":
		bc, err := badgerclient.NewClient(cfg.Cache.BadgerPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open Badger cache")
		}
		defer bc.Close()
		bc.StartValueLogGC(ctx, 10*time.Minute)
		cacheRepo = cache.NewKVSearchCache(cache.NewBadgerKVStore(bc))
		dependencies["badger"] = bc
	default:
		cacheRepo = database.NewSearchCacheAdapter(pgClient)
	}

	// Rate counter storage
	// only the in-process store needs sweeping; Redis expires windows itself
	var (
		counterStore providers.RateCounterStore
		sweeper      providers.RateWindowSweeper
	)
	if cfg.RateLimit.Backend == "redis" && redisClient != nil {
		counterStore = ratelimit.NewRedisCounterStore(redisClient)
	} else {
		memoryStore := ratelimit.NewMemoryCounterStore()
		counterStore = memoryStore
		sweeper = memoryStore
	}

	// Catchphrase generation
	var phrases providers.CatchphraseProvider = catchphrase.StaticProvider{}
	if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set; catchphrases use the default phrase")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize OpenAI client")
		} else {
			phrases = catchphrase.NewBreakerProvider(openaiClient, catchphrase.DefaultBreakerSettings(), metrics)
		}
	}

	limiter := services.NewRateLimiter(counterStore, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window(), metrics)
	resultCache := services.NewResultCache(cacheRepo, cfg.Cache.TTL(),
		services.WithCacheTimeout(cfg.Cache.Timeout),
		services.WithCacheMetrics(metrics),
	)
	driftService := services.NewDriftService(
		limiter,
		resultCache,
		candidates,
		services.NewScoringService(config.ShortlistSize),
		phrases,
		services.DriftOptions{
			MaxDistanceKm:      cfg.Search.MaxDistanceKm,
			ResultCount:        config.ResultCount,
			CandidateLimit:     config.CandidateLimit,
			CandidateTimeout:   cfg.Search.CandidateTimeout,
			CatchphraseTimeout: cfg.Search.CatchphraseTimeout,
			CandidateStore:     cfg.Search.CandidateStore,
		},
		metrics,
	)

	purgeService := services.NewCachePurgeService(resultCache, sweeper)
	purgeService.StartPeriodicPurge(ctx, cfg.Cache.PurgeInterval)

	var adminHandler *handlers.AdminHandler
	if cfg.Server.AdminToken != "" {
		adminHandler = handlers.NewAdminHandler(cfg.Server.AdminToken, limiter, purgeService)
	}

	router := routes.NewRouter(
		handlers.NewDriftHandler(driftService),
		handlers.NewHealthHandler(cfg.OTEL.ServiceVersion, cfg.Env, dependencies),
		adminHandler,
		routes.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Development:    cfg.IsDevelopment(),
		},
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", serverAddr).
			Str("candidate_store", cfg.Search.CandidateStore).
			Str("cache_backend", cfg.Cache.Backend).
			Bool("redis_rate_limit", sweeper == nil).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	log.Info().Msg("server stopped")
}
