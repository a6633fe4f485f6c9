package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scribehub/identity-api/internal/api"
	"github.com/scribehub/identity-api/internal/api/handler"
	"github.com/scribehub/identity-api/internal/infrastructure/config"
	mongodb "github.com/scribehub/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/scribehub/identity-api/internal/infrastructure/db/redis"
	"github.com/scribehub/identity-api/internal/infrastructure/queue"
	"github.com/scribehub/identity-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not up yet; envconfig already names the missing
		// variable (JWT_SECRET is required).
		bootLog := logger.Init(logger.Options{Service: "identity-api"})
		bootLog.Fatal().Err(err).Msg("configuration load failed")
	}

	log := logger.Init(logger.Options{
		Service: "identity-api",
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	auditRepo := mongodb.NewAuditRepository(db)
	dispatcher := queue.NewDispatcher(0, auditRepo, log)
	dispatcher.Start(ctx)

	e, err := api.NewRouter(api.Dependencies{
		Users:     mongodb.NewUserRepository(db),
		Posts:     mongodb.NewPostRepository(db),
		Audit:     auditRepo,
		PostCache: redisdb.NewPostCache(rdb),
		Recorder:  dispatcher,
		Readiness: []handler.ReadinessCheck{
			{Name: "mongodb", Check: func(ctx context.Context) error { return client.Ping(ctx, nil) }},
			{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
	}, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router construction failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
