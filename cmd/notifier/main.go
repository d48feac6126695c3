package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tair/foodgram/internal/config"
	"github.com/tair/foodgram/internal/recipe"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/database"
	"github.com/tair/foodgram/pkg/logger"
	"github.com/tair/foodgram/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	serviceName := cfg.OTelServiceName + "-notifier"
	logger.Init(serviceName, cfg.Environment, cfg.LogLevel)

	if !cfg.EventsEnabled() {
		logger.Logger.Fatal().Msg("KAFKA_BROKERS is required for the notifier")
	}

	tp, err := tracing.InitTracer(serviceName, cfg.JaegerEndpoint, cfg.TracingEnabled)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	notifier, err := recipe.InitializeNotifier(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize notifier")
	}

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{cfg.KafkaTopic})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	notifier.Register(consumer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down notifier...")
}
