package command

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/logger"
)

// DeleteRecipeCommand represents the command to delete a recipe
type DeleteRecipeCommand struct {
	Actor domain.Actor
	ID    uint
}

// DeleteRecipeHandler handles recipe deletion command
type DeleteRecipeHandler struct {
	repo   domain.RecipeRepository
	images ImageStore
	events kafka.EventPublisher
}

// NewDeleteRecipeHandler creates a new delete recipe handler
func NewDeleteRecipeHandler(repo domain.RecipeRepository, images ImageStore, events kafka.EventPublisher) *DeleteRecipeHandler {
	return &DeleteRecipeHandler{repo: repo, images: images, events: events}
}

// Handle executes the delete recipe command
func (h *DeleteRecipeHandler) Handle(ctx context.Context, cmd DeleteRecipeCommand) error {
	if cmd.Actor.IsAnonymous() {
		return domain.Unauthenticated()
	}

	recipe, err := h.repo.FindRecipeByID(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if !recipe.IsOwnedBy(cmd.Actor) {
		return domain.Forbidden("only the author can delete this recipe")
	}

	if err := h.repo.DeleteRecipe(ctx, cmd.ID); err != nil {
		return err
	}
	discardImage(ctx, h.images, recipe.Image)

	logger.Info(ctx).
		Uint("recipe_id", recipe.ID).
		Uint("actor_id", cmd.Actor.ID).
		Msg("Recipe deleted")

	publish(ctx, h.events, kafka.RecipeEvent{
		EventType:  kafka.EventTypeRecipeDeleted,
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
		AuthorID:   recipe.AuthorID,
		ActorID:    cmd.Actor.ID,
	})
	return nil
}
