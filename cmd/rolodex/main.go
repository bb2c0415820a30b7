package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/rolodex-app/rolodex/internal/app"
	"github.com/rolodex-app/rolodex/internal/auth"
	"github.com/rolodex-app/rolodex/internal/contacts"
	"github.com/rolodex-app/rolodex/internal/observability"
	"github.com/rolodex-app/rolodex/internal/platform/cache"
	"github.com/rolodex-app/rolodex/internal/platform/db"
	"github.com/rolodex-app/rolodex/internal/storage"
	"github.com/rolodex-app/rolodex/jobs"
	"github.com/rolodex-app/rolodex/migrations"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, "rolodex-api")

	if err := db.Migrate(ctx, cfg.PGDSN, migrations.FS); err != nil {
		logger.Error("apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		logger.Error("configure token manager", slog.Any("error", err))
		os.Exit(1)
	}

	avatarStore, err := storage.NewS3Store(ctx, storage.Config{
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		logger.Error("configure avatar store", slog.Any("error", err))
		os.Exit(1)
	}

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("configure job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	notifier := jobs.NewVerificationNotifier(jobClient, cfg.BaseURL)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokens, notifier, avatarStore, logger)
	gate := auth.NewGate(logger, tokens, authRepo)
	authHandler := auth.NewHandler(logger, authService, gate)

	contactsRepo := contacts.NewRepository(dbpool)
	contactsCache := contacts.NewCache(redisClient, 10*time.Minute)
	contactsService := contacts.NewService(contactsRepo, contactsCache, cfg.BirthdayWindowDays, logger)
	contactsHandler := contacts.NewHandler(logger, contactsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)
	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthHandler:     authHandler,
		ContactsHandler: contactsHandler,
		Gate:            gate,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
