package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bzuer/ethnos-api/internal/cache"
	"github.com/bzuer/ethnos-api/internal/config"
	"github.com/bzuer/ethnos-api/internal/db"
	"github.com/bzuer/ethnos-api/internal/db/postgres"
	dbRedis "github.com/bzuer/ethnos-api/internal/db/redis"
	"github.com/bzuer/ethnos-api/internal/index"
	logpkg "github.com/bzuer/ethnos-api/internal/logger"
	"github.com/bzuer/ethnos-api/internal/metrics"
	personrepo "github.com/bzuer/ethnos-api/internal/repository/person"
	venuerepo "github.com/bzuer/ethnos-api/internal/repository/venue"
	workrepo "github.com/bzuer/ethnos-api/internal/repository/work"
	chiTransport "github.com/bzuer/ethnos-api/internal/transport/chi"
	enrichuc "github.com/bzuer/ethnos-api/internal/usecase/enrich"
	healthuc "github.com/bzuer/ethnos-api/internal/usecase/health"
	searchuc "github.com/bzuer/ethnos-api/internal/usecase/search"
	"github.com/bzuer/ethnos-api/internal/version"
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

	logger.Info("Starting ethnos API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_url", cfg.Index.BaseURL),
	)

	// Authoritative relational store — the one hard dependency.
	store, err := postgres.NewStore(postgres.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Look-aside cache — optional, best-effort. A down or unconfigured
	// cache leaves the service running uncached.
	var (
		cacheStore  *dbRedis.Store
		cacheClient *cache.Cache
		cachePinger healthuc.Pinger
	)
	if len(cfg.Cache.Addrs) > 0 {
		cacheStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Warn("Failed to create cache store, running uncached", zap.Error(err))
		} else {
			defer cacheStore.Close()
			cacheClient = cache.New(cacheStore, logger)
			cachePinger = cacheStore
			logger.Info("Cache store configured", zap.Strings("addrs", cfg.Cache.Addrs))
		}
	}

	// Register engine metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Full-text index client — its own short deadline drives fallback.
	indexClient := index.NewClient(index.Config{
		BaseURL: cfg.Index.BaseURL,
		APIKey:  cfg.Index.APIKey,
		Timeout: time.Duration(cfg.Index.TimeoutMS) * time.Millisecond,
	})

	// Deadline-bounded executor shared by all repositories.
	executor := db.NewExecutor(store, logger).WithTimeouts(
		time.Duration(cfg.Database.QueryTimeoutMS)*time.Millisecond,
		time.Duration(cfg.Database.AggregateTimeoutMS)*time.Millisecond,
	)

	workRepo := workrepo.New(executor)
	personRepo := personrepo.New(executor)
	venueRepo := venuerepo.New(executor)

	searchSvc := searchuc.New(indexClient, workRepo, personRepo, logger).
		WithCache(cacheClient, time.Duration(cfg.Cache.SearchTTLSec)*time.Second)
	enrichSvc := enrichuc.New(venueRepo, logger).
		WithCache(cacheClient, time.Duration(cfg.Cache.EnrichTTLSec)*time.Second)
	healthSvc := healthuc.New(store, cachePinger, indexClient)

	server := chiTransport.NewServer(searchSvc, enrichSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
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
