package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeswinthayil/Lostandfound/config"
	"github.com/jeswinthayil/Lostandfound/internal/email"
	"github.com/jeswinthayil/Lostandfound/internal/health"
	"github.com/jeswinthayil/Lostandfound/internal/infrastructure/postgres"
	ctxlog "github.com/jeswinthayil/Lostandfound/internal/log"
	"github.com/jeswinthayil/Lostandfound/internal/metrics"
	"github.com/jeswinthayil/Lostandfound/internal/retention"
	"github.com/jeswinthayil/Lostandfound/internal/storage"
	"github.com/jeswinthayil/Lostandfound/internal/token"
	httptransport "github.com/jeswinthayil/Lostandfound/internal/transport/http"
	"github.com/jeswinthayil/Lostandfound/internal/transport/http/handler"
	"github.com/jeswinthayil/Lostandfound/internal/usecase"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	resetRepo := postgres.NewPasswordResetRepository(pool)
	revocationRepo := postgres.NewRevocationRepository(pool)

	photos, err := storage.NewMinioStore(storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		stop()
		log.Fatalf("photo storage: %v", err)
	}

	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	tokens := token.NewService([]byte(cfg.JWTSecret))

	authUsecase := usecase.NewAuthUsecase(userRepo, resetRepo, revocationRepo, tokens, sender, logger, usecase.AuthOptions{
		AllowedEmailDomain: cfg.AllowedEmailDomain,
		AdminEmail:         cfg.AdminEmail,
		PublicBaseURL:      cfg.PublicBaseURL,
		ResetBaseURL:       cfg.ResetBaseURL,
	}, time.Now)
	itemUsecase := usecase.NewItemUsecase(itemRepo, photos, sender, logger, time.Now)
	adminUsecase := usecase.NewAdminUsecase(itemRepo, userRepo)
	categoryUsecase := usecase.NewCategoryUsecase(categoryRepo)

	if err := authUsecase.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("admin bootstrap", "error", err)
	}

	authHandler := handler.NewAuthHandler(authUsecase, logger)
	itemHandler := handler.NewItemHandler(itemUsecase, logger)
	adminHandler := handler.NewAdminHandler(adminUsecase, logger)
	categoryHandler := handler.NewCategoryHandler(categoryUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	sweeper, err := retention.NewSweeper(itemRepo, revocationRepo, logger, cfg.SweepSchedule, time.Now)
	if err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}
	go sweeper.Start(ctx)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, itemHandler, adminHandler, categoryHandler, tokens, revocationRepo),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
