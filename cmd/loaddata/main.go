package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/foodgram/internal/config"
	"github.com/tair/foodgram/internal/recipe/loader"
	"github.com/tair/foodgram/internal/recipe/repository"
	"github.com/tair/foodgram/pkg/database"
	"github.com/tair/foodgram/pkg/logger"
)

func main() {
	file := flag.String("file", "data/ingredients.json", "path to the ingredient catalog (JSON array)")
	clearFirst := flag.Bool("clear", false, "delete existing ingredients before loading")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init("foodgram-loaddata", cfg.Environment, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	open := func() (io.ReadCloser, error) { return os.Open(*file) }
	result, err := loader.Import(ctx, loader.NewLoader(db), open, *clearFirst)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("file", *file).Msg("Failed to import ingredients")
	}
	if result.Skipped {
		logger.Logger.Info().
			Int64("count", result.Existing).
			Msg("Ingredients already loaded, use -clear to reload")
		return
	}
	logger.Logger.Info().
		Int64("deleted", result.Deleted).
		Int("loaded", result.Loaded).
		Str("file", *file).
		Msg("Ingredient catalog imported")

	if cfg.CacheEnabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
		if err := repository.InvalidateReferenceCache(ctx, redisClient); err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to invalidate reference cache")
		}
	}
}
