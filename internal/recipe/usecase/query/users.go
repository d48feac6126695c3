package query

import (
	"context"
	"fmt"

	"github.com/tair/foodgram/internal/recipe/domain"
)

// ListSubscriptionsQuery represents the query to list followed authors
type ListSubscriptionsQuery struct {
	Actor        domain.Actor
	Page         int
	Limit        int
	RecipesLimit int
}

// ListSubscriptionsHandler handles list subscriptions query
type ListSubscriptionsHandler struct {
	repo      domain.UserRepository
	projector *Projector
}

// NewListSubscriptionsHandler creates a new list subscriptions handler
func NewListSubscriptionsHandler(repo domain.UserRepository, projector *Projector) *ListSubscriptionsHandler {
	return &ListSubscriptionsHandler{repo: repo, projector: projector}
}

// Handle returns the authors the actor follows, ordered by username
func (h *ListSubscriptionsHandler) Handle(ctx context.Context, query ListSubscriptionsQuery) (*Page[AuthorView], error) {
	if query.Actor.IsAnonymous() {
		return nil, domain.Unauthenticated()
	}
	page, limit := normalizePage(query.Page, query.Limit)

	authors, total, err := h.repo.ListSubscriptions(ctx, query.Actor.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	views, err := h.projector.Authors(ctx, query.Actor, authors, query.RecipesLimit)
	if err != nil {
		return nil, err
	}
	return &Page[AuthorView]{Count: total, Page: page, Limit: limit, Results: views}, nil
}

// GetUserQuery represents the query to get a user profile
type GetUserQuery struct {
	Actor domain.Actor
	ID    uint
}

// GetUserHandler handles get user query
type GetUserHandler struct {
	repo      domain.UserRepository
	projector *Projector
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(repo domain.UserRepository, projector *Projector) *GetUserHandler {
	return &GetUserHandler{repo: repo, projector: projector}
}

// Handle returns the profile of one user
func (h *GetUserHandler) Handle(ctx context.Context, query GetUserQuery) (*UserView, error) {
	user, err := h.repo.FindUserByID(ctx, query.ID)
	if err != nil {
		return nil, err
	}
	return h.projector.User(ctx, query.Actor, user)
}
