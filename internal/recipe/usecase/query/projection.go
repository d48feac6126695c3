package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/foodgram/internal/recipe/domain"
)

// MediaURL is the public prefix prepended to stored image references
type MediaURL string

// UserView is the public profile of a user as seen by the requester
type UserView struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// IngredientView is an ingredient with the amount used by one recipe
type IngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeView is the full read projection of a recipe
type RecipeView struct {
	ID               uint             `json:"id"`
	Tags             []domain.Tag     `json:"tags"`
	Author           UserView         `json:"author"`
	Ingredients      []IngredientView `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
}

// RecipeSummary is the short projection used in relation responses and author previews
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// AuthorView is a user profile with a preview of their newest recipes
type AuthorView struct {
	UserView
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// Projector renders domain entities into read projections. Requester-dependent
// flags are computed at render time.
type Projector struct {
	repo     domain.Repository
	mediaURL string
}

// NewProjector creates a new projector
func NewProjector(repo domain.Repository, mediaURL MediaURL) *Projector {
	return &Projector{repo: repo, mediaURL: string(mediaURL)}
}

// ImageURL turns a stored reference into a public URL
func (p *Projector) ImageURL(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return p.mediaURL + ref
}

// Summary renders the short recipe projection
func (p *Projector) Summary(recipe *domain.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       p.ImageURL(recipe.Image),
		CookingTime: recipe.CookingTime,
	}
}

// Recipe renders one recipe for the actor
func (p *Projector) Recipe(ctx context.Context, actor domain.Actor, recipe *domain.Recipe) (*RecipeView, error) {
	views, err := p.Recipes(ctx, actor, []domain.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Recipes renders recipes for the actor with one flag lookup per relation kind
func (p *Projector) Recipes(ctx context.Context, actor domain.Actor, recipes []domain.Recipe) ([]RecipeView, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		authorIDs = append(authorIDs, recipe.AuthorID)
	}

	favorited, err := p.repo.RelatedTargets(ctx, domain.FavoriteRelation, actor.ID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	inCart, err := p.repo.RelatedTargets(ctx, domain.ShoppingRelation, actor.ID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}
	subscribed, err := p.repo.RelatedTargets(ctx, domain.SubscribeRelation, actor.ID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	views := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		recipe := &recipes[i]

		tags := make([]domain.Tag, 0, len(recipe.Tags))
		for _, rt := range recipe.Tags {
			tags = append(tags, rt.Tag)
		}
		ingredients := make([]IngredientView, 0, len(recipe.Ingredients))
		for _, ri := range recipe.Ingredients {
			ingredients = append(ingredients, IngredientView{
				ID:              ri.Ingredient.ID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}

		views = append(views, RecipeView{
			ID:               recipe.ID,
			Tags:             tags,
			Author:           userView(&recipe.Author, subscribed[recipe.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[recipe.ID],
			IsInShoppingCart: inCart[recipe.ID],
			Name:             recipe.Name,
			Image:            p.ImageURL(recipe.Image),
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
		})
	}
	return views, nil
}

// User renders a profile for the actor
func (p *Projector) User(ctx context.Context, actor domain.Actor, user *domain.User) (*UserView, error) {
	subscribed, err := p.repo.RelatedTargets(ctx, domain.SubscribeRelation, actor.ID, []uint{user.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	view := userView(user, subscribed[user.ID])
	return &view, nil
}

// Author renders one author profile with a recipe preview capped by recipesLimit (0 = no cap)
func (p *Projector) Author(ctx context.Context, actor domain.Actor, user *domain.User, recipesLimit int) (*AuthorView, error) {
	views, err := p.Authors(ctx, actor, []domain.User{*user}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Authors renders author profiles with recipe counts and previews
func (p *Projector) Authors(ctx context.Context, actor domain.Actor, users []domain.User, recipesLimit int) ([]AuthorView, error) {
	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}

	subscribed, err := p.repo.RelatedTargets(ctx, domain.SubscribeRelation, actor.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	counts, err := p.repo.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]AuthorView, 0, len(users))
	for i := range users {
		user := &users[i]
		recipes, err := p.repo.FindRecipesByAuthor(ctx, user.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		summaries := make([]RecipeSummary, 0, len(recipes))
		for j := range recipes {
			summaries = append(summaries, p.Summary(&recipes[j]))
		}

		views = append(views, AuthorView{
			UserView:     userView(user, subscribed[user.ID]),
			Recipes:      summaries,
			RecipesCount: counts[user.ID],
		})
	}
	return views, nil
}

func userView(user *domain.User, subscribed bool) UserView {
	return UserView{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}
