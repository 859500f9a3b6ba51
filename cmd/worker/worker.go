package main

import (
	"context"
	"log"
	"time"

	"doc-summarizer-platform/internal/config"
	"doc-summarizer-platform/internal/logger"
	"doc-summarizer-platform/internal/queue"
	"doc-summarizer-platform/internal/telemetry"
	"doc-summarizer-platform/services"

	"github.com/hibiken/asynq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("failed to initialize metrics", "error", err.Error())
		metrics = nil
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.DBName)

	// Connect to Redis; the worker shares the API server's storage policy,
	// so content writes degrade to the fallback cache when Redis is down.
	// Such content is only visible to this process, which is why the API
	// server should do sync processing when Redis is unavailable.
	var contentStore services.ContentStore
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("content store unavailable in worker", "error", err.Error())
	} else {
		contentStore = services.NewRedisContentStore(rdb)
		defer rdb.Close()
	}

	storage := services.NewDocumentStorage(
		services.NewMongoMetadataStore(db),
		contentStore,
		services.NewFallbackCache(),
		metrics,
	)
	extractor := services.NewTextExtractor(metrics)

	// Redis options for Asynq
	redisOpt, err := config.AsynqRedisOpt(cfg)
	if err != nil {
		log.Fatal("Worker requires Redis:", err)
	}

	// Create Asynq server
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("task failed", "type", task.Type(), "error", err.Error())
			}),
		},
	)

	// Create task processor
	processor := queue.NewTaskProcessor(cfg, storage, extractor)

	// Create mux and register handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskProcessDocument, processor.ProcessDocument)

	logger.Info("starting worker", "concurrency", cfg.WorkerConcurrency, "redis", redisOpt.Addr)

	// Start the server
	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
