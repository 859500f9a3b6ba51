package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI            string
	DBName              string
	RedisURL            string
	RedisPassword       string
	RedisDB             int
	GeminiAPIKey        string
	GeminiTier          string
	Port                string
	GinMode             string
	CORSOrigins         []string
	MaxFileSize         int64
	AllowedExtensions   []string
	FileStorageDir      string
	SyncProcessingLimit int64
	ChunkSize           int
	ChunkOverlap        int
	SummaryMaxLength    int
	QAContextLimit      int
	RateLimitReqs       int
	RateLimitWindow     int
	WorkerConcurrency   int
	TracingEnabled      bool
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		err := godotenv.Load()
		if err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017/doc_summarizer"),
		DBName:              getEnv("DB_NAME", "doc_summarizer"),
		RedisURL:            getEnv("REDIS_URL", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiTier:          getEnv("GEMINI_TIER", "free"),
		Port:                getEnv("PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		CORSOrigins:         strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		MaxFileSize:         getEnvInt64("MAX_FILE_SIZE", 10485760), // 10MB
		AllowedExtensions:   strings.Split(getEnv("ALLOWED_EXTENSIONS", ".pdf,.txt"), ","),
		FileStorageDir:      getEnv("FILE_STORAGE_DIR", "./storage"),
		SyncProcessingLimit: getEnvInt64("SYNC_PROCESSING_LIMIT", 2097152), // 2MB
		ChunkSize:           getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:        getEnvInt("CHUNK_OVERLAP", 200),
		SummaryMaxLength:    getEnvInt("SUMMARY_MAX_LENGTH", 500),
		QAContextLimit:      getEnvInt("QA_CONTEXT_LIMIT", 8000),
		RateLimitReqs:       getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:     getEnvInt("RATE_LIMIT_WINDOW", 60),
		WorkerConcurrency:   getEnvInt("WORKER_CONCURRENCY", 10),
		TracingEnabled:      getEnvBool("TRACING_ENABLED", false),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}

	// Overlap at or above chunk size degrades chunking to single-character
	// advances; refuse the configuration outright.
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
