package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imgworks/flux-kontext-api/cmd"
	"github.com/imgworks/flux-kontext-api/internal/analytics"
	"github.com/imgworks/flux-kontext-api/internal/config"
	"github.com/imgworks/flux-kontext-api/internal/gateway"
	"github.com/imgworks/flux-kontext-api/internal/jobs"
	"github.com/imgworks/flux-kontext-api/internal/models"
	"github.com/imgworks/flux-kontext-api/internal/platform/logger"
	platformotel "github.com/imgworks/flux-kontext-api/internal/platform/otel"
	"github.com/imgworks/flux-kontext-api/internal/replicate"
	"github.com/imgworks/flux-kontext-api/internal/server"
	"github.com/imgworks/flux-kontext-api/internal/storage"
	"github.com/imgworks/flux-kontext-api/internal/store/cache"
	"github.com/imgworks/flux-kontext-api/internal/store/sqlite"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger.Initialize(logger.DefaultConfig())
	log := logger.Get()
	defer logger.Sync()

	cmd.CheckForUpdates()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := platformotel.InitTracer("flux-kontext-api", log, os.Stdout)
		if err != nil {
			log.Fatal("failed to init tracer", zap.Error(err))
		}
		defer func() {
			_ = shutdown(context.Background())
		}()
	}

	repo, err := sqlite.NewSQLiteStorage(cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		_ = repo.Close()
	}()

	ingestor := analytics.NewIngestor(log, repo)
	ingestor.Start(ctx)

	var versionCache cache.CacheService
	if cfg.Redis.Enabled {
		versionCache = cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("using redis version cache", zap.String("addr", cfg.Redis.Addr))
	} else {
		versionCache = cache.NewMemoryCache()
	}

	client := replicate.New(replicate.Config{
		APIToken:     cfg.Replicate.APIToken,
		BaseURL:      cfg.Replicate.BaseURL,
		PollInterval: cfg.Replicate.PollInterval,
	})

	uploads, err := storage.NewLocal(cfg.Storage.UploadDir, cfg.Server.BaseURL, log)
	if err != nil {
		log.Fatal("failed to init upload storage", zap.Error(err))
	}

	registry := models.NewRegistry()
	resolver := models.NewResolver(client, versionCache, log)
	jobStore := jobs.NewStore(jobs.DefaultRetention, log)

	service := gateway.NewService(
		log, client, registry, resolver, jobStore, uploads, ingestor,
		cfg.Replicate.APIToken != "",
	)
	analyticsService := analytics.NewService(repo)

	srv := server.New(cfg, log, service, analyticsService, uploads)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Handler(),
	}

	go func() {
		log.Info("starting flux kontext api server",
			zap.String("port", cfg.Server.Port),
			zap.Strings("models", registry.Keys()),
			zap.Bool("replicate_connected", cfg.Replicate.APIToken != ""),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	ingestor.Stop()
}
