package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/trendwatch/internal/config"
	"github.com/hszk-dev/trendwatch/internal/domain/model"
	"github.com/hszk-dev/trendwatch/internal/domain/repository"
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// WaitGroup to track in-flight tasks
	var wg sync.WaitGroup

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting collector, consuming collect tasks")
		err := queueClient.ConsumeCollectTasks(ctx, func(task repository.CollectTask) error {
			wg.Add(1)
			defer wg.Done()
			return handleTask(ctx, logger, collectionSvc, task)
		})
		if err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("consumer error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down collector", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Collector.ShutdownTimeout)
	defer shutdownCancel()

	// Cancel the main context to stop consuming new tasks
	cancel()

	// Wait for in-flight tasks to complete (or timeout)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("all in-flight tasks completed")
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, some tasks may not have completed")
	}

	logger.Info("collector stopped")
	return nil
}

// handleTask runs one queued collection. Failed runs return an error so the
// queue's retry path republishes them with an incremented attempt counter.
func handleTask(ctx context.Context, logger *slog.Logger, svc usecase.CollectionService, task repository.CollectTask) error {
	date := time.Now()
	if task.Date != "" {
		parsed, err := time.Parse(time.DateOnly, task.Date)
		if err != nil {
			return fmt.Errorf("invalid task date %q: %w", task.Date, err)
		}
		date = parsed
	}

	if task.AllRegions {
		batch, err := svc.CollectAllRegions(ctx, date)
		if err != nil {
			return err
		}
		logger.Info("batch collection finished",
			slog.Bool("success", batch.Success),
			slog.Int("total_regions", batch.TotalRegions),
			slog.Int("succeeded", batch.Succeeded),
			slog.Int("failed", batch.Failed),
			slog.Int("skipped", batch.Skipped),
			slog.Int("total_videos", batch.TotalVideos),
		)
		for _, result := range batch.Results {
			if !result.Success && !result.AlreadyCollected {
				logger.Warn("region failed in batch",
					slog.String("region", result.Region),
					slog.String("error", result.Err),
				)
			}
		}
		if !batch.Success {
			return fmt.Errorf("batch collection failed for all %d regions", batch.TotalRegions)
		}
		return nil
	}

	result, err := svc.CollectRegion(ctx, task.Region, date)
	if err != nil {
		return err
	}
	if !result.Success && !result.AlreadyCollected {
		return fmt.Errorf("collection failed for %s: %s", result.Region, result.Err)
	}

	logger.Info("collection task finished",
		slog.String("region", result.Region),
		slog.Bool("success", result.Success),
		slog.Bool("already_collected", result.AlreadyCollected),
		slog.Int("videos_collected", result.VideosCollected),
	)
	return nil
}
