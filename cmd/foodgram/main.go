package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "github.com/tair/foodgram/docs"
	"github.com/tair/foodgram/internal/config"
	"github.com/tair/foodgram/internal/recipe"
	httpDelivery "github.com/tair/foodgram/internal/recipe/delivery/http"
	"github.com/tair/foodgram/internal/recipe/repository"
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

	// Initialize logger
	logger.Init(cfg.OTelServiceName, cfg.Environment, cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.OTelServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting foodgram service")

	// Initialize tracer
	tp, err := tracing.InitTracer(cfg.OTelServiceName, cfg.JaegerEndpoint, cfg.TracingEnabled)
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

	// Connect to database
	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := repository.NewGormRepository(db).AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	redisClient := connectRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	events, closeEvents := connectPublisher(cfg)
	defer closeEvents()

	// Initialize handlers with Wire DI
	recipeHandler, err := recipe.InitializeHTTPHandler(db, redisClient, events, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}
	authenticator, err := recipe.InitializeAuthenticator(db, redisClient, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize authenticator")
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           newRouter(cfg, recipeHandler, authenticator, sqlDB),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger_endpoint", "/swagger/index.html").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
}

func newRouter(cfg *config.Config, recipeHandler *httpDelivery.RecipeHandler, authenticator *httpDelivery.Authenticator, db *sql.DB) http.Handler {
	router := mux.NewRouter()

	// Register all middlewares using middleware registration system
	middlewareConfig := httpDelivery.NewMiddlewareConfig(cfg, authenticator)
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	// Register routes
	recipeHandler.RegisterRoutes(router)

	// Health check endpoint
	recipeHandler.RegisterHealthCheck(router, db)

	httpDelivery.RegisterSwaggerDocs(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Uploaded recipe images
	router.PathPrefix(cfg.MediaURL).Handler(
		http.StripPrefix(cfg.MediaURL, http.FileServer(http.Dir(cfg.MediaRoot))),
	)

	return httpDelivery.CORSHandler(middlewareConfig)(router)
}

// connectRedis returns nil when Redis is not configured or unreachable
func connectRedis(cfg *config.Config) *redis.Client {
	if !cfg.CacheEnabled() {
		logger.Logger.Info().Msg("REDIS_ADDR not set - caching and rate limiting disabled")
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.RedisAddr).
			Msg("Failed to connect to Redis - caching and rate limiting will be disabled")
		redisClient.Close()
		return nil
	}

	logger.Logger.Info().
		Str("redis_addr", cfg.RedisAddr).
		Msg("Connected to Redis")
	return redisClient
}

func connectPublisher(cfg *config.Config) (kafka.EventPublisher, func()) {
	if !cfg.EventsEnabled() {
		logger.Logger.Info().Msg("KAFKA_BROKERS not set - recipe events disabled")
		return kafka.NopPublisher{}, func() {}
	}

	publisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		logger.Logger.Warn().
			Err(err).
			Strs("brokers", cfg.KafkaBrokers).
			Msg("Failed to connect to Kafka - recipe events will be disabled")
		return kafka.NopPublisher{}, func() {}
	}

	logger.Logger.Info().
		Strs("brokers", cfg.KafkaBrokers).
		Str("topic", cfg.KafkaTopic).
		Msg("Kafka publisher initialized")
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka publisher")
		}
	}
}
