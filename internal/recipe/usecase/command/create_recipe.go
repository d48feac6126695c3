package command

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/logger"
)

// ImageStore persists recipe images and returns a storage reference
type ImageStore interface {
	Save(payload string) (string, error)
	Delete(ref string) error
}

// CreateRecipeCommand represents the command to create a new recipe
type CreateRecipeCommand struct {
	Actor domain.Actor
	Input RecipeInput
}

// CreateRecipeHandler handles recipe creation command
type CreateRecipeHandler struct {
	repo      domain.RecipeRepository
	images    ImageStore
	events    kafka.EventPublisher
	validator *RecipeValidator
}

// NewCreateRecipeHandler creates a new create recipe handler
func NewCreateRecipeHandler(repo domain.RecipeRepository, images ImageStore, events kafka.EventPublisher, validator *RecipeValidator) *CreateRecipeHandler {
	return &CreateRecipeHandler{repo: repo, images: images, events: events, validator: validator}
}

// Handle executes the create recipe command. The returned recipe only carries
// scalar fields; callers render it through the read projection.
func (h *CreateRecipeHandler) Handle(ctx context.Context, cmd CreateRecipeCommand) (*domain.Recipe, error) {
	if cmd.Actor.IsAnonymous() {
		return nil, domain.Unauthenticated()
	}
	if err := h.validator.Validate(cmd.Input); err != nil {
		return nil, err
	}

	imageRef, err := h.images.Save(cmd.Input.Image)
	if err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		AuthorID:    cmd.Actor.ID,
		Name:        cmd.Input.Name,
		Text:        cmd.Input.Text,
		CookingTime: cmd.Input.CookingTime,
		Image:       imageRef,
	}
	if err := h.repo.CreateRecipe(ctx, recipe, cmd.Input.Tags, cmd.Input.Ingredients); err != nil {
		discardImage(ctx, h.images, imageRef)
		return nil, err
	}

	logger.Info(ctx).
		Uint("recipe_id", recipe.ID).
		Uint("author_id", recipe.AuthorID).
		Msg("Recipe created")

	publish(ctx, h.events, kafka.RecipeEvent{
		EventType:  kafka.EventTypeRecipeCreated,
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
		AuthorID:   recipe.AuthorID,
		ActorID:    cmd.Actor.ID,
	})
	return recipe, nil
}

// publish sends an event; failures are logged and never fail the command
func publish(ctx context.Context, events kafka.EventPublisher, event kafka.RecipeEvent) {
	if err := events.Publish(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", event.EventType).
			Msg("Failed to publish recipe event")
	}
}

// discardImage removes a stored image on a best-effort basis
func discardImage(ctx context.Context, images ImageStore, ref string) {
	if ref == "" {
		return
	}
	if err := images.Delete(ref); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("image", ref).
			Msg("Failed to delete recipe image")
	}
}
