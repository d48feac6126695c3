package query

import (
	"context"
	"fmt"
	"math"

	"github.com/tair/foodgram/internal/recipe/domain"
)

// DefaultPageSize is used when a listing query carries no limit
const DefaultPageSize = 6

// Page is one page of a paginated listing
type Page[T any] struct {
	Count   int64
	Page    int
	Limit   int
	Results []T
}

// HasNext reports whether a page follows this one
func (p *Page[T]) HasNext() bool {
	return int64(p.Page)*int64(p.Limit) < p.Count
}

// HasPrevious reports whether a page precedes this one
func (p *Page[T]) HasPrevious() bool {
	return p.Page > 1
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	return min(page, MaxPage(limit)), limit
}

// MaxPage is the last page number whose offset fits in 32 bits
func MaxPage(limit int) int {
	if limit < 1 {
		limit = 1
	}
	return math.MaxInt32 / limit
}

// ListRecipesQuery represents the query to list recipes
type ListRecipesQuery struct {
	Actor  domain.Actor
	Filter domain.RecipeFilter
	Page   int
	Limit  int
}

// ListRecipesHandler handles list recipes query
type ListRecipesHandler struct {
	repo      domain.RecipeRepository
	projector *Projector
}

// NewListRecipesHandler creates a new list recipes handler
func NewListRecipesHandler(repo domain.RecipeRepository, projector *Projector) *ListRecipesHandler {
	return &ListRecipesHandler{repo: repo, projector: projector}
}

// Handle executes the list recipes query. Identity-scoped filters from an
// anonymous actor yield an empty page without touching the store.
func (h *ListRecipesHandler) Handle(ctx context.Context, query ListRecipesQuery) (*Page[RecipeView], error) {
	page, limit := normalizePage(query.Page, query.Limit)
	result := &Page[RecipeView]{Page: page, Limit: limit, Results: []RecipeView{}}

	if query.Filter.Empty(query.Actor) {
		return result, nil
	}

	recipes, total, err := h.repo.ListRecipes(ctx, query.Filter, query.Actor.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	views, err := h.projector.Recipes(ctx, query.Actor, recipes)
	if err != nil {
		return nil, err
	}
	result.Count = total
	result.Results = views
	return result, nil
}

// GetRecipeQuery represents the query to get one recipe
type GetRecipeQuery struct {
	Actor domain.Actor
	ID    uint
}

// GetRecipeHandler handles get recipe query
type GetRecipeHandler struct {
	repo      domain.RecipeRepository
	projector *Projector
}

// NewGetRecipeHandler creates a new get recipe handler
func NewGetRecipeHandler(repo domain.RecipeRepository, projector *Projector) *GetRecipeHandler {
	return &GetRecipeHandler{repo: repo, projector: projector}
}

// Handle executes the get recipe query
func (h *GetRecipeHandler) Handle(ctx context.Context, query GetRecipeQuery) (*RecipeView, error) {
	recipe, err := h.repo.FindRecipeByID(ctx, query.ID)
	if err != nil {
		return nil, err
	}
	return h.projector.Recipe(ctx, query.Actor, recipe)
}
