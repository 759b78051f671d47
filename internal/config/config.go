package config

import (
	"os"
	"strconv"
	"time"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	Storage     string // postgres or memory
	// Commit serialization; empty RedisURL uses an in-process lock
	RedisURL      string
	CommitLockTTL time.Duration
	// Tree behaviour
	MaxTreeDepth           int
	IndentationWidth       float64
	DragActivationDistance float64
	// Logging
	LogDir      string
	LogMaxFiles int
	Debug       bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:                   getEnv("PORT", "8080"),
		Environment:            env,
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		CORSOrigins:            getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:            getTablePrefix(env),
		Storage:                getEnv("STORAGE", StoragePostgres),
		RedisURL:               getEnv("REDIS_URL", ""),
		CommitLockTTL:          time.Duration(getEnvInt("COMMIT_LOCK_TTL_SECONDS", 30)) * time.Second,
		MaxTreeDepth:           getEnvInt("MAX_TREE_DEPTH", DefaultMaxTreeDepth),
		IndentationWidth:       getEnvFloat("TREE_INDENTATION_WIDTH", DefaultIndentationWidth),
		DragActivationDistance: getEnvFloat("DRAG_ACTIVATION_DISTANCE", DefaultActivationDistance),
		LogDir:                 getEnv("LOG_DIR", ""),
		LogMaxFiles:            getEnvInt("LOG_MAX_FILES", 10),
		// Default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
