package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/openclass/lms-platform/internal/api"
	"github.com/openclass/lms-platform/internal/core/service"
	"github.com/openclass/lms-platform/internal/infrastructure/config"
	mongostore "github.com/openclass/lms-platform/internal/infrastructure/db/mongo"
	redisstore "github.com/openclass/lms-platform/internal/infrastructure/db/redis"
	"github.com/openclass/lms-platform/internal/infrastructure/queue"
	"github.com/openclass/lms-platform/internal/token"
	"github.com/openclass/lms-platform/pkg/logger"

	_ "github.com/openclass/lms-platform/docs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// Missing signing secret is fatal: refuse to start.
	if err := cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	codec, err := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token codec")
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb unreachable")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unreachable")
	}
	defer rdb.Close()

	// Seed one account per role; safe on every start.
	userRepo := mongostore.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, codec, cfg.StoreTimeout, log)
	if err := authService.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed accounts")
	}

	auditService := service.NewAuditTrailService(mongostore.NewAuditRepository(db))
	dispatcher := queue.NewAuditDispatcher(0, auditService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(cfg, api.Deps{
		Mongo: db,
		Redis: rdb,
		Codec: codec,
		Audit: dispatcher,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("api server listening")
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
