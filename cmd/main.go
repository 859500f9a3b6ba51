package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doc-summarizer-platform/internal/ai"
	"doc-summarizer-platform/internal/config"
	"doc-summarizer-platform/internal/logger"
	"doc-summarizer-platform/internal/telemetry"
	"doc-summarizer-platform/middleware"
	"doc-summarizer-platform/routes"
	"doc-summarizer-platform/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Tracing is opt-in
	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("doc-summarizer-platform")
		if err != nil {
			logger.Warn("failed to initialize tracer", "error", err.Error())
		} else {
			defer shutdown()
		}
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("failed to initialize metrics", "error", err.Error())
		metrics = nil
	}

	// Connect to MongoDB (metadata store, required)
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

	// Connect to Redis (content store, optional). Without it all document
	// content lives in the in-process fallback cache.
	var rdb *redis.Client
	var contentStore services.ContentStore
	rdb, err = config.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("content store unavailable, using fallback cache only", "error", err.Error())
		rdb = nil
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

	// Gemini is optional; AI endpoints return 503 when unconfigured
	var geminiClient *ai.GeminiClient
	if cfg.GeminiAPIKey != "" {
		geminiClient, err = ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiTier)
		if err != nil {
			logger.Warn("failed to initialize Gemini client", "error", err.Error())
			geminiClient = nil
		} else {
			defer geminiClient.Close()
		}
	}
	summarizer := services.NewSummarizationService(geminiClient, cfg.QAContextLimit)

	// Asynq client for background document processing; requires Redis
	var queueClient *asynq.Client
	if redisOpt, err := config.AsynqRedisOpt(cfg); err == nil {
		queueClient = asynq.NewClient(redisOpt)
		defer queueClient.Close()
	} else {
		logger.Warn("async processing disabled", "error", err.Error())
	}

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	// Multipart encoding adds overhead on top of the file itself
	router.Use(middleware.RequestSizeLimit(cfg.MaxFileSize + 1<<20))
	if cfg.TracingEnabled {
		router.Use(middleware.TracingMiddleware())
		router.Use(middleware.EnrichTrace())
	}
	if rdb != nil {
		router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}
	router.Use(cors.New(corsConfig))

	// Setup routes
	routes.SetupHealthRoutes(router, mongoClient, rdb)
	routes.SetupDocumentRoutes(router, cfg, storage, extractor, queueClient)
	routes.SetupAIRoutes(router, cfg, storage, summarizer)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("server exited")
}
