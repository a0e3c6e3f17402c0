package main

import (
	"context"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"review-service/internal/config"
	"review-service/internal/domains/review/job"
	"review-service/internal/shared"
	"review-service/pkg/container"
	"review-service/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	c, err := container.NewContainer(ctx, cfg)
	cancel()
	if err != nil {
		logger.Error("Failed to initialize container", err)
		os.Exit(1)
	}
	defer c.Close()

	processor := job.NewExportProcessor(
		c.ReviewRepository,
		c.CategoryService,
		c.Storage,
		c.Cache,
		cfg,
	)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			shared.QueueDefault: 6,
			shared.QueueLow:     3,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(shared.TypeExportReviews, processor.HandleExportTask)
	mux.HandleFunc(shared.TypeDeleteStaleExports, processor.HandleDeleteStaleExports)

	// Nightly purge of export files past retention.
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register(
		"0 3 * * *",
		asynq.NewTask(shared.TypeDeleteStaleExports, nil),
		asynq.Queue(shared.QueueLow),
	); err != nil {
		logger.Error("Failed to register purge schedule", err)
		os.Exit(1)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("Scheduler stopped", err)
		}
	}()

	logger.Info("Worker starting", map[string]interface{}{
		"queues": []string{shared.QueueDefault, shared.QueueLow},
	})

	if err := srv.Run(mux); err != nil {
		logger.Error("Worker stopped", err)
		os.Exit(1)
	}

	scheduler.Shutdown()
}
