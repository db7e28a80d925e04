package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/backend"
	"github.com/shopkit/searchapi/internal/config"
	dbRedis "github.com/shopkit/searchapi/internal/db/redis"
	"github.com/shopkit/searchapi/internal/dictionary"
	"github.com/shopkit/searchapi/internal/domain"
	logpkg "github.com/shopkit/searchapi/internal/logger"
	"github.com/shopkit/searchapi/internal/metrics"
	"github.com/shopkit/searchapi/internal/queryproc"
	"github.com/shopkit/searchapi/internal/ranking"
	dictrepo "github.com/shopkit/searchapi/internal/repository/dictionary"
	"github.com/shopkit/searchapi/internal/repository/embcache"
	chiTransport "github.com/shopkit/searchapi/internal/transport/chi"
	openaiEmb "github.com/shopkit/searchapi/internal/transport/openai"
	healthuc "github.com/shopkit/searchapi/internal/usecase/health"
	searchuc "github.com/shopkit/searchapi/internal/usecase/search"
	"github.com/shopkit/searchapi/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting search API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("backend_url", cfg.Backend.BaseURL),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create dictionary store", zap.Error(err))
	}
	defer store.Close()

	// Wait for the dictionary store to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Dictionary store not ready", zap.Error(err))
	}
	logger.Info("Connected to dictionary store")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	backendClient, err := backend.NewClient(backend.Config{
		BaseURL:  cfg.Backend.BaseURL,
		Analyzer: cfg.Backend.Analyzer,
		Timeout:  time.Duration(cfg.Backend.TimeoutSec) * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create backend client", zap.Error(err))
	}

	// Dictionary repository + versioned caches, warmed for every known
	// environment so the first request never pays the load.
	repo := dictrepo.New(store, cfg.Storage.KeyPrefix)

	typos, err := dictionary.NewTypoCache(repo, repo, metrics.DictionaryLookupsTotal, metrics.DictionaryRefreshTotal, logger)
	if err != nil {
		logger.Fatal("Failed to create typo cache", zap.Error(err))
	}
	categories, err := dictionary.NewCategoryCache(repo, repo, metrics.DictionaryLookupsTotal, metrics.DictionaryRefreshTotal, logger)
	if err != nil {
		logger.Fatal("Failed to create category cache", zap.Error(err))
	}
	dicts := dictionary.NewService(typos, categories, repo, logger)

	if err := dicts.WarmUp(ctx); err != nil {
		logger.Warn("Dictionary warm-up incomplete", zap.Error(err))
	} else {
		logger.Info("Dictionary caches warmed")
	}

	embedder := buildEmbedder(cfg, store, logger)
	if cfg.Embedding.HealthCheckOnBoot {
		if err := newEmbeddingHealthChecker(embedder).HealthCheck(ctx); err != nil {
			logger.Warn("Embedding provider unreachable at startup", zap.Error(err))
		} else {
			logger.Info("Embedding provider reachable")
		}
	}

	searchSvc, err := searchuc.New(searchuc.Deps{
		Retriever:   backendClient,
		Analyzer:    backendClient,
		Embedder:    embedder,
		Queries:     queryproc.New(typos, repo, logger),
		Categories:  ranking.New(categories, repo, logger),
		Envs:        repo,
		IndexPrefix: cfg.Backend.IndexPrefix,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("Failed to build search service", zap.Error(err))
	}

	healthSvc := healthuc.New(store, backendClient, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(searchSvc, dicts, repo, healthSvc, cfg.Auth.APIKeys, chiTransport.Limits{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
		HybridTopK:      cfg.Search.HybridTopK,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached.
func buildEmbedder(cfg config.Config, store *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:         cfg.Embedding.APIKey,
		BaseURL:        cfg.Embedding.BaseURL,
		Model:          cfg.Embedding.Model,
		Dimensions:     cfg.Embedding.Dimensions,
		Provider:       cfg.Embedding.Provider,
		RetryAttempts:  cfg.Embedding.RetryAttempts,
		RetryBaseDelay: time.Duration(cfg.Embedding.RetryBaseDelayMs) * time.Millisecond,
		Logger:         logger,
	})

	if !cfg.Embedding.CacheEnabled {
		return base
	}
	ttl := time.Duration(cfg.Embedding.CacheTTLSec) * time.Second
	return embcache.New(base, store, cfg.Storage.KeyPrefix, ttl, metrics.EmbeddingCacheTotal, logger)
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}
