package query

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/repository/repotest"
)

func TestListRecipesHandler_Projection(t *testing.T) {
	s := repotest.New(t)
	ctx := context.Background()
	soup := s.CreateRecipe(t, s.Alice, "Soup", []domain.Tag{s.Dinner}, repotest.Amount(s.Salt, 5))
	s.CreateRecipe(t, s.Bob, "Cake", []domain.Tag{s.Breakfast}, repotest.Amount(s.Sugar, 100))
	require.NoError(t, s.Repo.AddRelation(ctx, domain.FavoriteRelation, s.Bob.ID, soup.ID))
	require.NoError(t, s.Repo.AddRelation(ctx, domain.SubscribeRelation, s.Bob.ID, s.Alice.ID))

	projector := NewProjector(s.Repo, "/media/")
	handler := NewListRecipesHandler(s.Repo, projector)

	page, err := handler.Handle(ctx, ListRecipesQuery{Actor: repotest.Actor(s.Bob)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	assert.Equal(t, DefaultPageSize, page.Limit)
	require.Len(t, page.Results, 2)

	cake, soupView := page.Results[0], page.Results[1]
	assert.Equal(t, "Cake", cake.Name)
	assert.False(t, cake.IsFavorited)
	assert.False(t, cake.Author.IsSubscribed)

	assert.Equal(t, "Soup", soupView.Name)
	assert.True(t, soupView.IsFavorited)
	assert.False(t, soupView.IsInShoppingCart)
	assert.True(t, soupView.Author.IsSubscribed)
	assert.Equal(t, "alice", soupView.Author.Username)
	assert.Equal(t, "/media/recipes/Soup.png", soupView.Image)
	require.Len(t, soupView.Tags, 1)
	assert.Equal(t, "dinner", soupView.Tags[0].Slug)
	assert.Equal(t, []IngredientView{{ID: s.Salt.ID, Name: "salt", MeasurementUnit: "g", Amount: 5}}, soupView.Ingredients)
}

func TestListRecipesHandler_AnonymousIdentityFilterIsEmpty(t *testing.T) {
	s := repotest.New(t)
	s.CreateRecipe(t, s.Alice, "Soup", []domain.Tag{s.Dinner}, repotest.Amount(s.Salt, 5))
	handler := NewListRecipesHandler(s.Repo, NewProjector(s.Repo, "/media/"))
	yes, no := true, false

	for _, filter := range []domain.RecipeFilter{
		{IsFavorited: &yes},
		{IsFavorited: &no},
		{IsInShoppingCart: &yes},
		{IsInShoppingCart: &no},
	} {
		page, err := handler.Handle(context.Background(), ListRecipesQuery{Actor: domain.Anonymous, Filter: filter})
		require.NoError(t, err)
		assert.Zero(t, page.Count)
		assert.NotNil(t, page.Results)
		assert.Empty(t, page.Results)
	}
}

func TestListRecipesHandler_Pagination(t *testing.T) {
	s := repotest.New(t)
	for _, name := range []string{"A", "B", "C"} {
		s.CreateRecipe(t, s.Alice, name, []domain.Tag{s.Dinner}, repotest.Amount(s.Salt, 1))
	}
	handler := NewListRecipesHandler(s.Repo, NewProjector(s.Repo, "/media/"))

	first, err := handler.Handle(context.Background(), ListRecipesQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())
	require.Len(t, first.Results, 2)
	assert.Equal(t, "C", first.Results[0].Name)

	second, err := handler.Handle(context.Background(), ListRecipesQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrevious())
	require.Len(t, second.Results, 1)
	assert.Equal(t, "A", second.Results[0].Name)
}

func TestListRecipesHandler_PageBeyondRange(t *testing.T) {
	s := repotest.New(t)
	s.CreateRecipe(t, s.Alice, "Soup", []domain.Tag{s.Dinner}, repotest.Amount(s.Salt, 1))
	handler := NewListRecipesHandler(s.Repo, NewProjector(s.Repo, "/media/"))

	page, err := handler.Handle(context.Background(), ListRecipesQuery{Page: math.MaxInt, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32/2, page.Page)
	assert.Equal(t, int64(1), page.Count)
	assert.Empty(t, page.Results)
	assert.False(t, page.HasNext())
	assert.True(t, page.HasPrevious())
}

func TestPage_HasNextLargeValues(t *testing.T) {
	page := Page[int]{Count: math.MaxInt64, Page: math.MaxInt32, Limit: 100}
	assert.True(t, page.HasNext())

	page.Count = 10
	assert.False(t, page.HasNext())
}

func TestGetRecipeHandler_Handle(t *testing.T) {
	s := repotest.New(t)
	recipe := s.CreateRecipe(t, s.Alice, "Soup", []domain.Tag{s.Dinner}, repotest.Amount(s.Salt, 5))
	require.NoError(t, s.Repo.AddRelation(context.Background(), domain.ShoppingRelation, s.Bob.ID, recipe.ID))
	handler := NewGetRecipeHandler(s.Repo, NewProjector(s.Repo, "/media/"))

	view, err := handler.Handle(context.Background(), GetRecipeQuery{Actor: repotest.Actor(s.Bob), ID: recipe.ID})
	require.NoError(t, err)
	assert.True(t, view.IsInShoppingCart)

	anonymous, err := handler.Handle(context.Background(), GetRecipeQuery{Actor: domain.Anonymous, ID: recipe.ID})
	require.NoError(t, err)
	assert.False(t, anonymous.IsInShoppingCart)

	_, err = handler.Handle(context.Background(), GetRecipeQuery{ID: 404})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestListSubscriptionsHandler_Handle(t *testing.T) {
	s := repotest.New(t)
	ctx := context.Background()
	for _, name := range []string{"First", "Second", "Third"} {
		s.CreateRecipe(t, s.Alice, name, []domain.Tag{s.Dinner}, repotest.Amount(s.Salt, 1))
	}
	require.NoError(t, s.Repo.AddRelation(ctx, domain.SubscribeRelation, s.Bob.ID, s.Alice.ID))
	handler := NewListSubscriptionsHandler(s.Repo, NewProjector(s.Repo, "/media/"))

	page, err := handler.Handle(ctx, ListSubscriptionsQuery{Actor: repotest.Actor(s.Bob), RecipesLimit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Results, 1)

	author := page.Results[0]
	assert.Equal(t, "alice", author.Username)
	assert.True(t, author.IsSubscribed)
	assert.Equal(t, int64(3), author.RecipesCount)
	require.Len(t, author.Recipes, 2)
	assert.Equal(t, "Third", author.Recipes[0].Name)
	assert.Equal(t, "Second", author.Recipes[1].Name)

	uncapped, err := handler.Handle(ctx, ListSubscriptionsQuery{Actor: repotest.Actor(s.Bob)})
	require.NoError(t, err)
	assert.Len(t, uncapped.Results[0].Recipes, 3)

	_, err = handler.Handle(ctx, ListSubscriptionsQuery{Actor: domain.Anonymous})
	assert.True(t, domain.IsKind(err, domain.KindUnauthenticated))
}

func TestGetUserHandler_Handle(t *testing.T) {
	s := repotest.New(t)
	require.NoError(t, s.Repo.AddRelation(context.Background(), domain.SubscribeRelation, s.Bob.ID, s.Alice.ID))
	handler := NewGetUserHandler(s.Repo, NewProjector(s.Repo, "/media/"))

	view, err := handler.Handle(context.Background(), GetUserQuery{Actor: repotest.Actor(s.Bob), ID: s.Alice.ID})
	require.NoError(t, err)
	assert.Equal(t, "Alice", view.FirstName)
	assert.True(t, view.IsSubscribed)

	_, err = handler.Handle(context.Background(), GetUserQuery{ID: 99})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestShoppingReportHandler_Handle(t *testing.T) {
	s := repotest.New(t)
	ctx := context.Background()
	first := s.CreateRecipe(t, s.Alice, "R1", []domain.Tag{s.Dinner}, repotest.Amount(s.Salt, 10))
	second := s.CreateRecipe(t, s.Alice, "R2", []domain.Tag{s.Dinner}, repotest.Amount(s.Salt, 5), repotest.Amount(s.Flour, 2))
	require.NoError(t, s.Repo.AddRelation(ctx, domain.ShoppingRelation, s.Bob.ID, second.ID))
	require.NoError(t, s.Repo.AddRelation(ctx, domain.ShoppingRelation, s.Bob.ID, first.ID))

	handler := NewShoppingReportHandler(s.Repo)
	generated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	handler.now = func() time.Time { return generated }

	report, err := handler.Handle(ctx, ShoppingReportQuery{Actor: repotest.Actor(s.Bob)})
	require.NoError(t, err)
	assert.Equal(t, "bob", report.Username)
	assert.Equal(t, generated, report.GeneratedAt)
	assert.Equal(t, []domain.ShoppingItem{
		{Index: 1, Name: "Flour", Unit: "(kg)", Amount: 2},
		{Index: 2, Name: "Salt", Unit: "(g)", Amount: 15},
	}, report.Items)

	_, err = handler.Handle(ctx, ShoppingReportQuery{Actor: domain.Anonymous})
	assert.True(t, domain.IsKind(err, domain.KindUnauthenticated))
}

type staticReferences struct {
	domain.ReferenceRepository
	ingredients []domain.Ingredient
}

func (s staticReferences) ListIngredients(context.Context) ([]domain.Ingredient, error) {
	return s.ingredients, nil
}

func TestSearchIngredientsHandler_Handle(t *testing.T) {
	repo := staticReferences{ingredients: []domain.Ingredient{
		{ID: 1, Name: "васаби", MeasurementUnit: "г"},
		{ID: 2, Name: "сахар", MeasurementUnit: "г"},
		{ID: 3, Name: "кислый сахарный сироп", MeasurementUnit: "мл"},
		{ID: 4, Name: "Сало", MeasurementUnit: "г"},
		{ID: 5, Name: "соль", MeasurementUnit: "г"},
	}}
	handler := NewSearchIngredientsHandler(repo)

	names := func(ingredients []domain.Ingredient) []string {
		out := make([]string, 0, len(ingredients))
		for _, ingredient := range ingredients {
			out = append(out, ingredient.Name)
		}
		return out
	}

	found, err := handler.Handle(context.Background(), SearchIngredientsQuery{Name: "Са"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Сало", "сахар", "васаби", "кислый сахарный сироп"}, names(found))

	all, err := handler.Handle(context.Background(), SearchIngredientsQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := handler.Handle(context.Background(), SearchIngredientsQuery{Name: "xyz"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReferenceHandlers(t *testing.T) {
	s := repotest.New(t)
	ctx := context.Background()

	tags, err := NewListTagsHandler(s.Repo).Handle(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	tag, err := NewGetTagHandler(s.Repo).Handle(ctx, s.Dinner.ID)
	require.NoError(t, err)
	assert.Equal(t, "dinner", tag.Slug)

	ingredient, err := NewGetIngredientHandler(s.Repo).Handle(ctx, s.Flour.ID)
	require.NoError(t, err)
	assert.Equal(t, "kg", ingredient.MeasurementUnit)

	found, err := NewSearchIngredientsHandler(s.Repo).Handle(ctx, SearchIngredientsQuery{Name: "S"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "salt", found[0].Name)
	assert.Equal(t, "sugar", found[1].Name)
}
