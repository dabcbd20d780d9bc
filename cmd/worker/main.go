package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	appvaluation "main/internal/application/service/valuation"
	"main/internal/config"
	"main/internal/domain/interfaces"
	"main/internal/infrastructure/broker"
	infravaluations "main/internal/infrastructure/valuations"
	"main/internal/valuation/calculator"
	"main/internal/valuation/daycount"

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

	valuationsRepo, err := infravaluations.NewRepository(cfg.Postgres.DSN)
	if err != nil {
		logger.Fatalf("failed to init valuations repo: %v", err)
	}
	defer valuationsRepo.Close()

	var provider interfaces.YearFractionProvider = daycount.NewLocalProvider()
	if cfg.Service.DayCountURL != "" {
		provider = daycount.NewClient(cfg.Service.DayCountURL)
		logger.Infof("using remote day count service at %s", cfg.Service.DayCountURL)
	}

	factory := calculator.NewFactory(provider)
	valuationService := appvaluation.NewService(factory, valuationsRepo, cfg.Service.Version)

	consumer, err := broker.NewConsumer(cfg.RabbitMQ, valuationService, logger)
	if err != nil {
		logger.Fatalf("failed to init consumer: %v", err)
	}
	if err := consumer.Start(ctx); err != nil {
		logger.Fatalf("failed to start consumer: %v", err)
	}

	<-ctx.Done()
	logger.Infof("shutting down worker")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := consumer.Close(shutdownCtx); err != nil {
		logger.Errorf("consumer shutdown error: %v", err)
	}
	logger.Info("worker stopped")
}
