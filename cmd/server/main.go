package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"doctree/internal/config"
	"doctree/internal/domain/repositories"
	docrepo "doctree/internal/domain/repositories/doctree"
	"doctree/internal/handler"
	"doctree/internal/middleware"
	"doctree/internal/repository/memory"
	"doctree/internal/repository/postgres"
	postgresDoctree "doctree/internal/repository/postgres/doctree"
	redisrepo "doctree/internal/repository/redis"
	serviceDoctree "doctree/internal/service/doctree"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := config.NewLogger(cfg, logOutput)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.Storage,
		"table_prefix", cfg.TablePrefix,
		"max_tree_depth", cfg.MaxTreeDepth,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.Pinger{}

	// Storage backend
	var nodeRepo docrepo.NodeRepository
	switch cfg.Storage {
	case config.StorageMemory:
		nodeRepo = memory.NewNodeRepository(logger)
		logger.Warn("using in-memory storage; data is lost on restart")
	case config.StoragePostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		logger.Info("database connected", "table", tables.Nodes)

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		txManager := postgres.NewTransactionManager(pool, logger)
		nodeRepo = postgresDoctree.NewNodeRepository(repoConfig, txManager)
		checks["database"] = pool
	default:
		log.Fatalf("Unknown STORAGE %q (want %s or %s)", cfg.Storage, config.StoragePostgres, config.StorageMemory)
	}

	// Commit serialization across instances when Redis is configured
	var commitLock repositories.CommitLock
	if cfg.RedisURL != "" {
		redisLock, err := redisrepo.NewCommitLock(cfg.RedisURL, cfg.CommitLockTTL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisLock.Close()
		commitLock = redisLock
		checks["redis"] = redisLock
		logger.Info("redis commit lock enabled", "ttl", cfg.CommitLockTTL)
	} else {
		commitLock = memory.NewCommitLock()
		logger.Info("in-process commit lock enabled")
	}

	// Services and handlers
	treeOpts := serviceDoctree.OptionsFromConfig(cfg)
	treeService := serviceDoctree.NewTreeService(nodeRepo, commitLock, treeOpts, logger)
	nodeService := serviceDoctree.NewNodeService(nodeRepo, commitLock, treeOpts, logger)

	mux := handler.NewRouter(
		handler.NewTreeHandler(treeService, serviceDoctree.DragOptionsFromConfig(cfg), logger),
		handler.NewNodeHandler(nodeService, logger),
		handler.NewHealthHandler(checks, logger),
	)

	// Middleware in reverse order: CORS -> request log -> recovery -> routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
