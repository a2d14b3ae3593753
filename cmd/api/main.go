package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/trendwatch/internal/api/handler"
	"github.com/hszk-dev/trendwatch/internal/api/middleware"
	"github.com/hszk-dev/trendwatch/internal/config"
	"github.com/hszk-dev/trendwatch/internal/domain/model"
	"github.com/hszk-dev/trendwatch/internal/infrastructure/cache"
	"github.com/hszk-dev/trendwatch/internal/infrastructure/postgres"
	"github.com/hszk-dev/trendwatch/internal/infrastructure/queue"
	"github.com/hszk-dev/trendwatch/internal/infrastructure/youtube"
	"github.com/hszk-dev/trendwatch/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	fetcher, err := youtube.NewClient(ctx, youtube.ClientConfig{
		APIKey:  cfg.YouTube.APIKey,
		Timeout: cfg.YouTube.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create YouTube client: %w", err)
	}

	catalog := model.DefaultCatalog()
	videoRepo := postgres.NewVideoRepository(pgClient.Pool())
	logRepo := postgres.NewCollectionLogRepository(pgClient.Pool())
	trendingCache := cache.NewRedisTrendingCache(redisClient)

	trendingSvc := usecase.NewCachedTrendingService(
		usecase.NewTrendingService(catalog, videoRepo, logRepo, usecase.TrendingServiceConfig{
			Limit: cfg.Collector.TrendingLimit,
		}),
		catalog,
		trendingCache,
		usecase.CachedTrendingServiceConfig{
			CacheTTL: cfg.Collector.CacheTTL,
		},
	)

	collectionSvc := usecase.NewCollectionService(
		catalog,
		fetcher,
		videoRepo,
		logRepo,
		trendingCache,
		usecase.CollectionServiceConfig{
			Policy:      usecase.DuplicatePolicy(cfg.Collector.DuplicatePolicy),
			MaxResults:  cfg.Collector.MaxResults,
			PacingDelay: cfg.Collector.PacingDelay,
		},
	)

	healthHandler := handler.NewHealthHandler(map[string]handler.PingFunc{
		"postgres": pgClient.Ping,
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})

	r := setupRouter(logger, catalog, trendingSvc, collectionSvc, queueClient, healthHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(
	logger *slog.Logger,
	catalog model.Catalog,
	trendingSvc usecase.TrendingService,
	collectionSvc usecase.CollectionService,
	queueClient *queue.Client,
	healthHandler *handler.HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	trendingHandler := handler.NewTrendingHandler(trendingSvc, catalog)
	collectHandler := handler.NewCollectHandler(collectionSvc, queueClient)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/trending", trendingHandler.Get)
		r.Get("/search", trendingHandler.Search)
		r.Post("/collect", collectHandler.CollectAll)
		r.Get("/collect/status", collectHandler.Status)
		r.Post("/collect/{region}", collectHandler.CollectRegion)
	})

	return r
}
