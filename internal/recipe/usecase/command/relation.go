package command

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/logger"
)

// RelationStore is the data access needed by the toggle handlers
type RelationStore interface {
	domain.RelationRepository
	FindRecipeByID(ctx context.Context, id uint) (*domain.Recipe, error)
	FindUserByID(ctx context.Context, id uint) (*domain.User, error)
}

// RelationCommand adds or removes one actor->target association
type RelationCommand struct {
	Kind     domain.RelationKind
	Actor    domain.Actor
	TargetID uint
}

// RelationTarget is the entity a relation points at; exactly one field is set
type RelationTarget struct {
	Recipe *domain.Recipe
	Author *domain.User
}

// AddRelationHandler handles favorite, shopping cart and subscribe additions
type AddRelationHandler struct {
	repo   RelationStore
	events kafka.EventPublisher
}

// NewAddRelationHandler creates a new add relation handler
func NewAddRelationHandler(repo RelationStore, events kafka.EventPublisher) *AddRelationHandler {
	return &AddRelationHandler{repo: repo, events: events}
}

// Handle inserts the association and returns its target for projection
func (h *AddRelationHandler) Handle(ctx context.Context, cmd RelationCommand) (*RelationTarget, error) {
	if cmd.Actor.IsAnonymous() {
		return nil, domain.Unauthenticated()
	}

	target, err := resolveTarget(ctx, h.repo, cmd.Kind, cmd.TargetID)
	if err != nil {
		return nil, err
	}
	if cmd.Kind.ForbidSelf && cmd.Actor.ID == cmd.TargetID {
		return nil, domain.InvalidRelationship(cmd.Kind.SelfMessage)
	}

	if err := h.repo.AddRelation(ctx, cmd.Kind, cmd.Actor.ID, cmd.TargetID); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("relation", cmd.Kind.Name).
		Uint("actor_id", cmd.Actor.ID).
		Uint("target_id", cmd.TargetID).
		Msg("Relation added")

	publish(ctx, h.events, relationEvent(kafka.EventTypeRelationAdded, cmd))
	return target, nil
}

// RemoveRelationHandler handles favorite, shopping cart and subscribe removals
type RemoveRelationHandler struct {
	repo   RelationStore
	events kafka.EventPublisher
}

// NewRemoveRelationHandler creates a new remove relation handler
func NewRemoveRelationHandler(repo RelationStore, events kafka.EventPublisher) *RemoveRelationHandler {
	return &RemoveRelationHandler{repo: repo, events: events}
}

// Handle deletes the association; a missing association is an error
func (h *RemoveRelationHandler) Handle(ctx context.Context, cmd RelationCommand) error {
	if cmd.Actor.IsAnonymous() {
		return domain.Unauthenticated()
	}

	if _, err := resolveTarget(ctx, h.repo, cmd.Kind, cmd.TargetID); err != nil {
		return err
	}
	if err := h.repo.RemoveRelation(ctx, cmd.Kind, cmd.Actor.ID, cmd.TargetID); err != nil {
		return err
	}

	logger.Info(ctx).
		Str("relation", cmd.Kind.Name).
		Uint("actor_id", cmd.Actor.ID).
		Uint("target_id", cmd.TargetID).
		Msg("Relation removed")

	publish(ctx, h.events, relationEvent(kafka.EventTypeRelationRemoved, cmd))
	return nil
}

func resolveTarget(ctx context.Context, repo RelationStore, kind domain.RelationKind, id uint) (*RelationTarget, error) {
	switch kind.Target {
	case domain.TargetUser:
		user, err := repo.FindUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &RelationTarget{Author: user}, nil
	default:
		recipe, err := repo.FindRecipeByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &RelationTarget{Recipe: recipe}, nil
	}
}

func relationEvent(eventType string, cmd RelationCommand) kafka.RecipeEvent {
	event := kafka.RecipeEvent{
		EventType: eventType,
		ActorID:   cmd.Actor.ID,
		Relation:  cmd.Kind.Name,
		TargetID:  cmd.TargetID,
	}
	if cmd.Kind.Target == domain.TargetRecipe {
		event.RecipeID = cmd.TargetID
	}
	return event
}
