package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tair/foodgram/internal/recipe/domain"
)

// ListTagsHandler handles list tags query
type ListTagsHandler struct {
	repo domain.ReferenceRepository
}

// NewListTagsHandler creates a new list tags handler
func NewListTagsHandler(repo domain.ReferenceRepository) *ListTagsHandler {
	return &ListTagsHandler{repo: repo}
}

// Handle returns every tag ordered by slug
func (h *ListTagsHandler) Handle(ctx context.Context) ([]domain.Tag, error) {
	tags, err := h.repo.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// GetTagHandler handles get tag query
type GetTagHandler struct {
	repo domain.ReferenceRepository
}

// NewGetTagHandler creates a new get tag handler
func NewGetTagHandler(repo domain.ReferenceRepository) *GetTagHandler {
	return &GetTagHandler{repo: repo}
}

// Handle returns one tag
func (h *GetTagHandler) Handle(ctx context.Context, id uint) (*domain.Tag, error) {
	return h.repo.FindTagByID(ctx, id)
}

// SearchIngredientsQuery represents an ingredient name search
type SearchIngredientsQuery struct {
	Name string
}

// SearchIngredientsHandler handles ingredient search
type SearchIngredientsHandler struct {
	repo domain.ReferenceRepository
}

// NewSearchIngredientsHandler creates a new search ingredients handler
func NewSearchIngredientsHandler(repo domain.ReferenceRepository) *SearchIngredientsHandler {
	return &SearchIngredientsHandler{repo: repo}
}

// Handle returns ingredients whose name starts with the query, followed by
// those that only contain it. Matching ignores case; an empty query returns
// every ingredient.
func (h *SearchIngredientsHandler) Handle(ctx context.Context, query SearchIngredientsQuery) ([]domain.Ingredient, error) {
	ingredients, err := h.repo.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(query.Name))
	if needle == "" {
		return ingredients, nil
	}

	var prefixed, contained []domain.Ingredient
	for _, ingredient := range ingredients {
		name := strings.ToLower(ingredient.Name)
		switch {
		case strings.HasPrefix(name, needle):
			prefixed = append(prefixed, ingredient)
		case strings.Contains(name, needle):
			contained = append(contained, ingredient)
		}
	}
	sortByName(prefixed)
	sortByName(contained)

	return append(append(make([]domain.Ingredient, 0, len(prefixed)+len(contained)), prefixed...), contained...), nil
}

func sortByName(ingredients []domain.Ingredient) {
	sort.SliceStable(ingredients, func(i, j int) bool {
		a, b := strings.ToLower(ingredients[i].Name), strings.ToLower(ingredients[j].Name)
		if a != b {
			return a < b
		}
		return ingredients[i].ID < ingredients[j].ID
	})
}

// GetIngredientHandler handles get ingredient query
type GetIngredientHandler struct {
	repo domain.ReferenceRepository
}

// NewGetIngredientHandler creates a new get ingredient handler
func NewGetIngredientHandler(repo domain.ReferenceRepository) *GetIngredientHandler {
	return &GetIngredientHandler{repo: repo}
}

// Handle returns one ingredient
func (h *GetIngredientHandler) Handle(ctx context.Context, id uint) (*domain.Ingredient, error) {
	return h.repo.FindIngredientByID(ctx, id)
}
