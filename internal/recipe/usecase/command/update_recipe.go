package command

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/logger"
)

// UpdateRecipeCommand represents the command to update a recipe
type UpdateRecipeCommand struct {
	Actor domain.Actor
	ID    uint
	Input UpdateRecipeInput
}

// UpdateRecipeHandler handles recipe update command
type UpdateRecipeHandler struct {
	repo      domain.RecipeRepository
	images    ImageStore
	events    kafka.EventPublisher
	validator *RecipeValidator
}

// NewUpdateRecipeHandler creates a new update recipe handler
func NewUpdateRecipeHandler(repo domain.RecipeRepository, images ImageStore, events kafka.EventPublisher, validator *RecipeValidator) *UpdateRecipeHandler {
	return &UpdateRecipeHandler{repo: repo, images: images, events: events, validator: validator}
}

// Handle executes the update recipe command
func (h *UpdateRecipeHandler) Handle(ctx context.Context, cmd UpdateRecipeCommand) (*domain.Recipe, error) {
	if cmd.Actor.IsAnonymous() {
		return nil, domain.Unauthenticated()
	}

	existing, err := h.repo.FindRecipeByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if !existing.IsOwnedBy(cmd.Actor) {
		return nil, domain.Forbidden("only the author can modify this recipe")
	}
	if err := h.validator.Validate(cmd.Input); err != nil {
		return nil, err
	}

	changes := domain.RecipeChanges{
		Name:        cmd.Input.Name,
		Text:        cmd.Input.Text,
		CookingTime: cmd.Input.CookingTime,
	}
	var newImage string
	if cmd.Input.Image != nil {
		if newImage, err = h.images.Save(*cmd.Input.Image); err != nil {
			return nil, err
		}
		changes.Image = &newImage
	}

	updated, err := h.repo.UpdateRecipe(ctx, cmd.ID, changes, cmd.Input.Tags, cmd.Input.Ingredients)
	if err != nil {
		discardImage(ctx, h.images, newImage)
		return nil, err
	}
	if newImage != "" && existing.Image != newImage {
		discardImage(ctx, h.images, existing.Image)
	}

	logger.Info(ctx).
		Uint("recipe_id", updated.ID).
		Uint("actor_id", cmd.Actor.ID).
		Msg("Recipe updated")

	publish(ctx, h.events, kafka.RecipeEvent{
		EventType:  kafka.EventTypeRecipeUpdated,
		RecipeID:   updated.ID,
		RecipeName: updated.Name,
		AuthorID:   updated.AuthorID,
		ActorID:    cmd.Actor.ID,
	})
	return updated, nil
}
