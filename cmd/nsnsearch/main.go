package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nsnsearch/internal/config"
	dbPostgres "github.com/kailas-cloud/nsnsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/nsnsearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/nsnsearch/internal/logger"
	"github.com/kailas-cloud/nsnsearch/internal/metrics"
	"github.com/kailas-cloud/nsnsearch/internal/repository/fragcache"
	historyrepo "github.com/kailas-cloud/nsnsearch/internal/repository/history"
	"github.com/kailas-cloud/nsnsearch/internal/repository/reference"
	chiTransport "github.com/kailas-cloud/nsnsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/nsnsearch/internal/usecase/health"
	historyuc "github.com/kailas-cloud/nsnsearch/internal/usecase/history"
	searchuc "github.com/kailas-cloud/nsnsearch/internal/usecase/search"
	"github.com/kailas-cloud/nsnsearch/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	logger, closeLogFile, err := logpkg.WithFileSink(logger, logpkg.FileConfig{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		panic("failed to open log file: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
		_ = closeLogFile()
	}()

	logger.Info("Starting nsnsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("history_enabled", cfg.History.Enabled),
		zap.String("name_search", cfg.Search.NameSearch),
	)

	ctx := context.Background()

	// Reference database
	pg, err := dbPostgres.NewStore(dbPostgres.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime(),
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer func() { _ = pg.Close() }()

	if err := pg.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Redis backs both the fragment cache and the history stream.
	var rds *dbRedis.Store
	if cfg.Cache.Enabled || cfg.History.Enabled {
		rds, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer rds.Close()

		if err := rds.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache")
	}

	metrics.RegisterSearchMetrics()

	nameMatch, err := searchuc.ParseNameMatch(cfg.Search.NameSearch)
	if err != nil {
		logger.Fatal("Invalid search config", zap.Error(err))
	}

	refRepo := reference.New(pg, cfg.Database.ChunkSize)

	var loader searchuc.FragmentLoader = refRepo
	if cfg.Cache.Enabled {
		loader = fragcache.New(refRepo, rds, cfg.Cache.FragmentTTL(), metrics.FragmentCacheTotal, logger)
	}

	searchSvc := searchuc.New(loader, refRepo, searchuc.Config{
		MinQueryLength:        cfg.Search.MinQueryLength,
		MaxPageSize:           cfg.Search.MaxPageSize,
		DiscoveryMultiplier:   cfg.Search.DiscoveryMultiplier,
		DiscoveryMax:          cfg.Search.DiscoveryMax,
		LookupTimeout:         cfg.Search.LookupTimeout(),
		DiscoveryTimeout:      cfg.Search.DiscoveryTimeout(),
		NameMatch:             nameMatch,
		SkipOptionalFragments: cfg.Search.SkipOptionalFragments,
		MemoTTL:               cfg.Cache.DiscoveryTTL(),
	}, metrics.SearchObserver{}, logger)

	// Pass nil interface (not typed nil pointer!) when redis is not configured.
	var cachePinger healthuc.Pinger
	if rds != nil {
		cachePinger = rds
	}
	healthSvc := healthuc.New(pg, cachePinger)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger).
		WithDefaultPageSize(cfg.Search.DefaultPageSize)

	var dispatcher *historyuc.Dispatcher
	if cfg.History.Enabled {
		publisher := historyrepo.New(rds, cfg.History.Stream, cfg.History.MaxLen)
		dispatcher = historyuc.NewDispatcher(publisher, historyuc.Config{
			Buffer:         cfg.History.Buffer,
			Workers:        cfg.History.Workers,
			PublishTimeout: cfg.History.PublishTimeout(),
		}, metrics.HistoryCounter{}, logger)
		server = server.WithHistory(dispatcher)
		logger.Info("Search history enabled", zap.String("stream", cfg.History.Stream))
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	if dispatcher != nil {
		if err := dispatcher.Close(shutdownCtx); err != nil {
			logger.Warn("History not fully flushed", zap.Error(err))
		}
		stats := dispatcher.Stats()
		logger.Info("History dispatcher stopped",
			zap.Uint64("published", stats.Published),
			zap.Uint64("dropped", stats.Dropped),
			zap.Uint64("failed", stats.Failed),
		)
	}

	logger.Info("Server stopped gracefully")
}
