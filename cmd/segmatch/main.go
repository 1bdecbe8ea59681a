package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/audiencelab/segmatch/internal/catalog"
	"github.com/audiencelab/segmatch/internal/cluster"
	"github.com/audiencelab/segmatch/internal/config"
	"github.com/audiencelab/segmatch/internal/db"
	dbRedis "github.com/audiencelab/segmatch/internal/db/redis"
	"github.com/audiencelab/segmatch/internal/domain"
	logpkg "github.com/audiencelab/segmatch/internal/logger"
	"github.com/audiencelab/segmatch/internal/metrics"
	catalogrepo "github.com/audiencelab/segmatch/internal/repository/catalog"
	"github.com/audiencelab/segmatch/internal/repository/embcache"
	recordsrepo "github.com/audiencelab/segmatch/internal/repository/records"
	"github.com/audiencelab/segmatch/internal/retrieval"
	"github.com/audiencelab/segmatch/internal/scoring"
	chiTransport "github.com/audiencelab/segmatch/internal/transport/chi"
	openaiEmb "github.com/audiencelab/segmatch/internal/transport/openai"
	healthuc "github.com/audiencelab/segmatch/internal/usecase/health"
	searchuc "github.com/audiencelab/segmatch/internal/usecase/search"
	segmentuc "github.com/audiencelab/segmatch/internal/usecase/segment"
	"github.com/audiencelab/segmatch/internal/version"
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

	logger.Info("Starting segmatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog", cfg.Catalog.Path),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterHTTPMetrics()

	// Load the variable catalog into an immutable snapshot.
	entries, err := catalogrepo.Load(cfg.Catalog.Path, cfg.Catalog.Format)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	snap, err := catalog.NewSnapshot(entries)
	if err != nil {
		logger.Fatal("Failed to build catalog snapshot", zap.Error(err))
	}
	handle := catalog.NewHandle(snap)
	logger.Info("Catalog loaded", zap.Int("variables", snap.Len()))

	// Load the per-record dataset for segmentation.
	records, err := recordsrepo.Load(cfg.Records.Path)
	if err != nil {
		logger.Fatal("Failed to load records", zap.Error(err))
	}
	logger.Info("Records loaded", zap.Int("rows", records.N()))

	// Optional embedding cache store.
	var store db.Store
	if len(cfg.Cache.Addrs) > 0 {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer redisStore.Close()

		ctx := context.Background()
		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := redisStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		store = redisStore
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Build the embedder chain and semantic path. Both are optional; without
	// them the service runs keyword-only.
	embedder := buildEmbedder(cfg, store, logger)

	// Keep semantic a nil interface when the path is off; a typed nil
	// *SemanticRetriever would not compare equal to nil downstream.
	var semantic searchuc.Retriever
	if embedder != nil && cfg.Catalog.Embeddings != "" {
		vectors, err := catalogrepo.LoadEmbeddings(cfg.Catalog.Embeddings)
		if err != nil {
			logger.Fatal("Failed to load variable embeddings", zap.Error(err))
		}
		semantic = retrieval.NewSemanticRetriever(embedder, vectors)
		logger.Info("Semantic retrieval enabled", zap.Int("vectors", len(vectors)))
	} else {
		logger.Warn("Semantic retrieval disabled, running keyword-only")
	}

	keyword := retrieval.NewKeywordRetriever(snap, cfg.Search.MaxFeatures)

	scoringCfg := scoring.Default()
	scoringCfg.KeywordWeight = cfg.Search.KeywordWeight
	scoringCfg.SemanticWeight = cfg.Search.SemanticWeight
	scoringCfg.KeywordCeiling = cfg.Search.KeywordCeiling
	scorer := scoring.New(scoringCfg)

	searchSvc := searchuc.New(handle, keyword, semantic, scorer, searchuc.Config{
		TopK:            cfg.Search.TopK,
		DedupeThreshold: cfg.Search.DedupeThreshold,
		MaxPerGroup:     cfg.Search.MaxPerGroup,
		UseConcepts:     !cfg.Search.DisableConcepts,
	}, logger)

	segmentSvc := segmentuc.New(records, cluster.Config{
		MinPct:           cfg.Cluster.MinPct,
		MaxPct:           cfg.Cluster.MaxPct,
		MaxClusters:      cfg.Cluster.MaxClusters,
		RepairIterations: cfg.Cluster.RepairIterations,
		Restarts:         cfg.Cluster.Restarts,
		Seed:             cfg.Cluster.Seed,
	}, logger)

	var embChecker healthuc.EmbeddingChecker
	if embedder != nil {
		embChecker = newEmbeddingHealthChecker(embedder)
	}
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(handle, embChecker, cachePinger)

	server := chiTransport.NewServer(handle, searchSvc, segmentSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(requestLogMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

// requestLogMiddleware emits a canonical log line per request and propagates
// X-Request-ID.
func requestLogMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}

// buildEmbedder assembles the embedder chain: OpenAI -> Cached.
// Returns nil when no API key is configured.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) domain.Embedder {
	if cfg.Embedding.APIKey == "" {
		return nil
	}

	var embedder domain.Embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	if store != nil {
		embedder = embcache.New(
			embedder,
			store,
			cfg.Cache.KeyPrefix,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.EmbeddingCacheTotal,
			logger,
		)
	}

	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cached", store != nil),
	)
	return embedder
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(healthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}
