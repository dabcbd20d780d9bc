package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appbonds "main/internal/application/service/bonds"
	appvaluation "main/internal/application/service/valuation"
	"main/internal/config"
	"main/internal/domain/interfaces"
	infrabonds "main/internal/infrastructure/bonds"
	infravaluations "main/internal/infrastructure/valuations"
	infrahttp "main/internal/interfaces/http"
	"main/internal/valuation/calculator"
	"main/internal/valuation/daycount"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	bondsRepo, err := infrabonds.NewRepository(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatalf("failed to init bonds repo: %v", err)
	}
	defer bondsRepo.Close()

	valuationsRepo, err := infravaluations.NewRepository(cfg.Postgres.DSN)
	if err != nil {
		logger.Fatalf("failed to init valuations repo: %v", err)
	}
	defer valuationsRepo.Close()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var provider interfaces.YearFractionProvider = daycount.NewLocalProvider()
	if cfg.Service.DayCountURL != "" {
		provider = daycount.NewClient(cfg.Service.DayCountURL)
		logger.Infof("using remote day count service at %s", cfg.Service.DayCountURL)
	}

	factory := calculator.NewFactory(provider)
	valuationService := appvaluation.NewService(factory, valuationsRepo, cfg.Service.Version)
	bondsService := appbonds.NewService(bondsRepo)

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	handler := infrahttp.NewHandler(valuationService, bondsService, redisClient, cacheTTL, logger)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: handler,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown error: %v", err)
	}
	logger.Info("server stopped")
}
