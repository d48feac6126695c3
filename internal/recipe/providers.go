// Package recipe assembles the recipe service from its repository, usecases and delivery layers.
package recipe

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/config"
	"github.com/tair/foodgram/internal/recipe/delivery/http"
	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/media"
	"github.com/tair/foodgram/internal/recipe/notify"
	"github.com/tair/foodgram/internal/recipe/repository"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
	"github.com/tair/foodgram/internal/recipe/usecase/query"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/auth"
)

// ProvideTracedRepository provides the gorm repository wrapped with tracing
func ProvideTracedRepository(db *gorm.DB) *repository.TracingRepository {
	return repository.NewTracingRepository(repository.NewGormRepository(db))
}

// ProvideRepository adds the reference data cache; a nil client disables it
func ProvideRepository(traced *repository.TracingRepository, redisClient *redis.Client, cfg *config.Config) domain.Repository {
	return repository.NewCachedReferenceRepository(traced, redisClient, cfg.CacheTTL)
}

// Supporting services
func ProvideImageStore(cfg *config.Config) command.ImageStore {
	return media.NewImageStore(cfg.MediaRoot)
}

func ProvideProjector(repo domain.Repository, cfg *config.Config) *query.Projector {
	return query.NewProjector(repo, query.MediaURL(cfg.MediaURL))
}

func ProvideTokenManager(cfg *config.Config) *auth.Manager {
	return auth.NewManager(cfg.JWTSecret, cfg.JWTExpiresIn)
}

// Command Handlers Providers
func ProvideCreateRecipeHandler(repo domain.Repository, images command.ImageStore, events kafka.EventPublisher, validator *command.RecipeValidator) *command.CreateRecipeHandler {
	return command.NewCreateRecipeHandler(repo, images, events, validator)
}

func ProvideUpdateRecipeHandler(repo domain.Repository, images command.ImageStore, events kafka.EventPublisher, validator *command.RecipeValidator) *command.UpdateRecipeHandler {
	return command.NewUpdateRecipeHandler(repo, images, events, validator)
}

func ProvideDeleteRecipeHandler(repo domain.Repository, images command.ImageStore, events kafka.EventPublisher) *command.DeleteRecipeHandler {
	return command.NewDeleteRecipeHandler(repo, images, events)
}

func ProvideAddRelationHandler(repo domain.Repository, events kafka.EventPublisher) *command.AddRelationHandler {
	return command.NewAddRelationHandler(repo, events)
}

func ProvideRemoveRelationHandler(repo domain.Repository, events kafka.EventPublisher) *command.RemoveRelationHandler {
	return command.NewRemoveRelationHandler(repo, events)
}

// Query Handlers Providers
func ProvideListRecipesHandler(repo domain.Repository, projector *query.Projector) *query.ListRecipesHandler {
	return query.NewListRecipesHandler(repo, projector)
}

func ProvideGetRecipeHandler(repo domain.Repository, projector *query.Projector) *query.GetRecipeHandler {
	return query.NewGetRecipeHandler(repo, projector)
}

func ProvideListTagsHandler(repo domain.Repository) *query.ListTagsHandler {
	return query.NewListTagsHandler(repo)
}

func ProvideGetTagHandler(repo domain.Repository) *query.GetTagHandler {
	return query.NewGetTagHandler(repo)
}

func ProvideSearchIngredientsHandler(repo domain.Repository) *query.SearchIngredientsHandler {
	return query.NewSearchIngredientsHandler(repo)
}

func ProvideGetIngredientHandler(repo domain.Repository) *query.GetIngredientHandler {
	return query.NewGetIngredientHandler(repo)
}

func ProvideListSubscriptionsHandler(repo domain.Repository, projector *query.Projector) *query.ListSubscriptionsHandler {
	return query.NewListSubscriptionsHandler(repo, projector)
}

func ProvideGetUserHandler(repo domain.Repository, projector *query.Projector) *query.GetUserHandler {
	return query.NewGetUserHandler(repo, projector)
}

func ProvideShoppingReportHandler(repo domain.Repository) *query.ShoppingReportHandler {
	return query.NewShoppingReportHandler(repo)
}

// ProvideCommands provides all command handlers
func ProvideCommands(
	createHandler *command.CreateRecipeHandler,
	updateHandler *command.UpdateRecipeHandler,
	deleteHandler *command.DeleteRecipeHandler,
	addRelationHandler *command.AddRelationHandler,
	removeRelationHandler *command.RemoveRelationHandler,
) http.Commands {
	return http.Commands{
		CreateRecipe:   createHandler,
		UpdateRecipe:   updateHandler,
		DeleteRecipe:   deleteHandler,
		AddRelation:    addRelationHandler,
		RemoveRelation: removeRelationHandler,
	}
}

// ProvideQueries provides all query handlers
func ProvideQueries(
	listRecipesHandler *query.ListRecipesHandler,
	getRecipeHandler *query.GetRecipeHandler,
	listTagsHandler *query.ListTagsHandler,
	getTagHandler *query.GetTagHandler,
	searchIngredientsHandler *query.SearchIngredientsHandler,
	getIngredientHandler *query.GetIngredientHandler,
	listSubscriptionsHandler *query.ListSubscriptionsHandler,
	getUserHandler *query.GetUserHandler,
	shoppingReportHandler *query.ShoppingReportHandler,
	projector *query.Projector,
) http.Queries {
	return http.Queries{
		ListRecipes:       listRecipesHandler,
		GetRecipe:         getRecipeHandler,
		ListTags:          listTagsHandler,
		GetTag:            getTagHandler,
		SearchIngredients: searchIngredientsHandler,
		GetIngredient:     getIngredientHandler,
		ListSubscriptions: listSubscriptionsHandler,
		GetUser:           getUserHandler,
		ShoppingReport:    shoppingReportHandler,
		Projector:         projector,
	}
}

// Delivery providers
func ProvideRateLimiter(redisClient *redis.Client, cfg *config.Config) *http.RateLimiter {
	return http.NewRateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow)
}

func ProvideHandlerOptions(cfg *config.Config) http.Options {
	return http.Options{PageSize: cfg.PageSize, Registerer: prometheus.DefaultRegisterer}
}

func ProvideRecipeHandler(commands http.Commands, queries http.Queries, repo domain.Repository, limiter *http.RateLimiter, opts http.Options) *http.RecipeHandler {
	return http.NewRecipeHandler(commands, queries, repo, limiter, opts)
}

func ProvideAuthenticator(tokens *auth.Manager, repo domain.Repository) *http.Authenticator {
	return http.NewAuthenticator(tokens, repo)
}

// ProvideNotifier provides the subscriber notifier writing to the log
func ProvideNotifier(repo *repository.TracingRepository) *notify.Notifier {
	return notify.NewNotifier(repo, notify.LogSink{})
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideTracedRepository,
	ProvideRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideImageStore,
	command.NewRecipeValidator,
	ProvideCreateRecipeHandler,
	ProvideUpdateRecipeHandler,
	ProvideDeleteRecipeHandler,
	ProvideAddRelationHandler,
	ProvideRemoveRelationHandler,
	ProvideCommands,
)

var QueryHandlerSet = wire.NewSet(
	ProvideProjector,
	ProvideListRecipesHandler,
	ProvideGetRecipeHandler,
	ProvideListTagsHandler,
	ProvideGetTagHandler,
	ProvideSearchIngredientsHandler,
	ProvideGetIngredientHandler,
	ProvideListSubscriptionsHandler,
	ProvideGetUserHandler,
	ProvideShoppingReportHandler,
	ProvideQueries,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)
