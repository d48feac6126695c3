//go:build wireinject
// +build wireinject

package recipe

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/config"
	"github.com/tair/foodgram/internal/recipe/delivery/http"
	"github.com/tair/foodgram/internal/recipe/notify"
	"github.com/tair/foodgram/kafka"
)

// InitializeHTTPHandler initializes the recipe HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, redisClient *redis.Client, events kafka.EventPublisher, cfg *config.Config) (*http.RecipeHandler, error) {
	wire.Build(
		AllHandlersSet,
		ProvideRateLimiter,
		ProvideHandlerOptions,
		ProvideRecipeHandler,
	)
	return nil, nil
}

// InitializeAuthenticator initializes the token middleware
func InitializeAuthenticator(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) (*http.Authenticator, error) {
	wire.Build(
		RepositorySet,
		ProvideTokenManager,
		ProvideAuthenticator,
	)
	return nil, nil
}

// InitializeNotifier initializes the subscriber notifier
func InitializeNotifier(db *gorm.DB) (*notify.Notifier, error) {
	wire.Build(
		ProvideTracedRepository,
		ProvideNotifier,
	)
	return nil, nil
}
