package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/madavola/tracegate/internal/api"
	"github.com/madavola/tracegate/internal/infrastructure/config"
	mongodb "github.com/madavola/tracegate/internal/infrastructure/db/mongo"
	redisdb "github.com/madavola/tracegate/internal/infrastructure/db/redis"
	"github.com/madavola/tracegate/internal/infrastructure/queue"
	"github.com/madavola/tracegate/internal/infrastructure/upstream"
	"github.com/madavola/tracegate/pkg/logger"
)

// @title        MADAVOLA Traceability Gateway API
// @version      1.0
// @description  Session gateway for the MADAVOLA commodity traceability platform (gold, gemstones, timber).
// @BasePath     /
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	store := redisdb.NewSessionStore(rdb, cfg.Session.TTL)
	client := upstream.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout, store, log)

	auditRepo := mongodb.NewAuditRepository(db)
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Config:   cfg,
		Mongo:    db,
		Redis:    rdb,
		Upstream: client,
		Store:    store,
		Audit:    dispatcher,
		AuditLog: auditRepo,
		Log:      log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("upstream", cfg.Upstream.URL).Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
