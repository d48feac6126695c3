package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/foodgram/internal/recipe/domain"
)

type fixture struct {
	repo        *GormRepository
	alice, bob  domain.User
	breakfast   domain.Tag
	dinner      domain.Tag
	salt, sugar domain.Ingredient
	flour       domain.Ingredient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	repo := NewGormRepository(db)
	require.NoError(t, repo.AutoMigrate())

	f := &fixture{
		repo:      repo,
		alice:     domain.User{ID: 1, Username: "alice", Email: "alice@example.com"},
		bob:       domain.User{ID: 2, Username: "bob", Email: "bob@example.com"},
		breakfast: domain.Tag{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		dinner:    domain.Tag{Name: "Dinner", Color: "#49B64E", Slug: "dinner"},
		salt:      domain.Ingredient{Name: "salt", MeasurementUnit: "g"},
		sugar:     domain.Ingredient{Name: "sugar", MeasurementUnit: "g"},
		flour:     domain.Ingredient{Name: "flour", MeasurementUnit: "kg"},
	}
	ctx := context.Background()
	require.NoError(t, repo.EnsureUser(ctx, &f.alice))
	require.NoError(t, repo.EnsureUser(ctx, &f.bob))
	require.NoError(t, db.Create(&f.breakfast).Error)
	require.NoError(t, db.Create(&f.dinner).Error)
	require.NoError(t, db.Create(&f.salt).Error)
	require.NoError(t, db.Create(&f.sugar).Error)
	require.NoError(t, db.Create(&f.flour).Error)
	return f
}

func (f *fixture) createRecipe(t *testing.T, author domain.User, name string, tagIDs []uint, items ...domain.IngredientAmount) *domain.Recipe {
	t.Helper()
	recipe := &domain.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "recipes/" + name + ".png",
		Text:        "Mix everything.",
		CookingTime: 10,
	}
	require.NoError(t, f.repo.CreateRecipe(context.Background(), recipe, tagIDs, items))
	return recipe
}

func TestGormRepository_CreateAndFindRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.createRecipe(t, f.alice, "Pancakes",
		[]uint{f.breakfast.ID, f.dinner.ID},
		domain.IngredientAmount{IngredientID: f.flour.ID, Amount: 2},
		domain.IngredientAmount{IngredientID: f.sugar.ID, Amount: 30},
	)
	require.NotZero(t, created.ID)

	recipe, err := f.repo.FindRecipeByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", recipe.Author.Username)
	require.Len(t, recipe.Tags, 2)
	assert.Equal(t, "breakfast", recipe.Tags[0].Tag.Slug)
	assert.Equal(t, "dinner", recipe.Tags[1].Tag.Slug)
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "flour", recipe.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 30, recipe.Ingredients[1].Amount)
}

func TestGormRepository_FindRecipeByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.repo.FindRecipeByID(context.Background(), 404)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestGormRepository_CreateRecipe_DuplicateName(t *testing.T) {
	f := newFixture(t)
	f.createRecipe(t, f.alice, "Soup", []uint{f.dinner.ID}, domain.IngredientAmount{IngredientID: f.salt.ID, Amount: 1})

	dup := &domain.Recipe{AuthorID: f.bob.ID, Name: "Soup", Image: "x.png", Text: "t", CookingTime: 5}
	err := f.repo.CreateRecipe(context.Background(), dup, []uint{f.dinner.ID}, []domain.IngredientAmount{{IngredientID: f.salt.ID, Amount: 1}})

	require.Error(t, err)
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.KindValidation, domainErr.Kind)
	assert.Contains(t, domainErr.Fields, "name")
	assert.Zero(t, dup.ID)
}

func TestGormRepository_CreateRecipe_DuplicateIngredientRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	recipe := &domain.Recipe{AuthorID: f.alice.ID, Name: "Salty", Image: "x.png", Text: "t", CookingTime: 5}
	err := f.repo.CreateRecipe(ctx, recipe, []uint{f.dinner.ID}, []domain.IngredientAmount{
		{IngredientID: f.salt.ID, Amount: 1},
		{IngredientID: f.salt.ID, Amount: 2},
	})

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.KindValidation, domainErr.Kind)
	assert.Contains(t, domainErr.Fields, "ingredients")

	count, err := f.repo.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormRepository_CreateRecipe_UnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	recipe := &domain.Recipe{AuthorID: f.alice.ID, Name: "Ghost", Image: "x.png", Text: "t", CookingTime: 5}
	err := f.repo.CreateRecipe(ctx, recipe, []uint{999}, []domain.IngredientAmount{{IngredientID: f.salt.ID, Amount: 1}})

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.KindValidation, domainErr.Kind)
	assert.Contains(t, domainErr.Fields, "tags")

	err = f.repo.CreateRecipe(ctx, recipe, []uint{f.dinner.ID}, []domain.IngredientAmount{{IngredientID: 999, Amount: 1}})
	require.ErrorAs(t, err, &domainErr)
	assert.Contains(t, domainErr.Fields, "ingredients")
}

func TestGormRepository_UpdateRecipe_ReplacesAssociations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createRecipe(t, f.alice, "Porridge",
		[]uint{f.breakfast.ID},
		domain.IngredientAmount{IngredientID: f.flour.ID, Amount: 1},
		domain.IngredientAmount{IngredientID: f.salt.ID, Amount: 3},
	)

	name := "Sweet porridge"
	updated, err := f.repo.UpdateRecipe(ctx, created.ID, domain.RecipeChanges{Name: &name},
		[]uint{f.dinner.ID},
		[]domain.IngredientAmount{{IngredientID: f.sugar.ID, Amount: 7}},
	)
	require.NoError(t, err)

	assert.Equal(t, "Sweet porridge", updated.Name)
	assert.Equal(t, created.Image, updated.Image)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Tag.Slug)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "sugar", updated.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 7, updated.Ingredients[0].Amount)
}

func TestGormRepository_UpdateRecipe_FailureKeepsPreviousState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createRecipe(t, f.alice, "Stew", []uint{f.dinner.ID}, domain.IngredientAmount{IngredientID: f.salt.ID, Amount: 4})

	name := "Broken stew"
	_, err := f.repo.UpdateRecipe(ctx, created.ID, domain.RecipeChanges{Name: &name},
		[]uint{f.breakfast.ID, f.breakfast.ID},
		[]domain.IngredientAmount{{IngredientID: f.sugar.ID, Amount: 1}},
	)
	require.True(t, domain.IsKind(err, domain.KindValidation))

	recipe, err := f.repo.FindRecipeByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stew", recipe.Name)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "dinner", recipe.Tags[0].Tag.Slug)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "salt", recipe.Ingredients[0].Ingredient.Name)
}

func TestGormRepository_UpdateRecipe_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.repo.UpdateRecipe(context.Background(), 77, domain.RecipeChanges{}, []uint{f.dinner.ID},
		[]domain.IngredientAmount{{IngredientID: f.salt.ID, Amount: 1}})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestGormRepository_DeleteRecipe_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createRecipe(t, f.alice, "Toast", []uint{f.breakfast.ID}, domain.IngredientAmount{IngredientID: f.flour.ID, Amount: 1})
	require.NoError(t, f.repo.AddRelation(ctx, domain.FavoriteRelation, f.bob.ID, created.ID))
	require.NoError(t, f.repo.AddRelation(ctx, domain.ShoppingRelation, f.bob.ID, created.ID))

	require.NoError(t, f.repo.DeleteRecipe(ctx, created.ID))

	_, err := f.repo.FindRecipeByID(ctx, created.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	totals, err := f.repo.ShoppingTotals(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, totals)

	err = f.repo.DeleteRecipe(ctx, created.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestGormRepository_ListRecipes_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	salt := domain.IngredientAmount{IngredientID: f.salt.ID, Amount: 1}
	eggs := f.createRecipe(t, f.alice, "Eggs", []uint{f.breakfast.ID}, salt)
	steak := f.createRecipe(t, f.alice, "Steak", []uint{f.dinner.ID}, salt)
	brunch := f.createRecipe(t, f.bob, "Brunch", []uint{f.breakfast.ID, f.dinner.ID}, salt)
	require.NoError(t, f.repo.AddRelation(ctx, domain.FavoriteRelation, f.bob.ID, steak.ID))
	require.NoError(t, f.repo.AddRelation(ctx, domain.ShoppingRelation, f.bob.ID, eggs.ID))

	ids := func(recipes []domain.Recipe) []uint {
		out := make([]uint, 0, len(recipes))
		for _, r := range recipes {
			out = append(out, r.ID)
		}
		return out
	}
	yes, no := true, false
	alice, bob := f.alice.ID, f.bob.ID

	tests := []struct {
		name    string
		filter  domain.RecipeFilter
		actorID uint
		want    []uint
	}{
		{name: "no filter newest first", want: []uint{brunch.ID, steak.ID, eggs.ID}},
		{name: "author", filter: domain.RecipeFilter{Author: &alice}, want: []uint{steak.ID, eggs.ID}},
		{name: "tags match any", filter: domain.RecipeFilter{Tags: []string{"breakfast"}}, want: []uint{brunch.ID, eggs.ID}},
		{name: "several tags count each recipe once", filter: domain.RecipeFilter{Tags: []string{"breakfast", "dinner"}}, want: []uint{brunch.ID, steak.ID, eggs.ID}},
		{name: "several tags with author", filter: domain.RecipeFilter{Tags: []string{"breakfast", "dinner"}, Author: &bob}, want: []uint{brunch.ID}},
		{name: "unknown tag", filter: domain.RecipeFilter{Tags: []string{"lunch"}}, want: []uint{}},
		{name: "favorited", filter: domain.RecipeFilter{IsFavorited: &yes}, actorID: f.bob.ID, want: []uint{steak.ID}},
		{name: "not favorited", filter: domain.RecipeFilter{IsFavorited: &no}, actorID: f.bob.ID, want: []uint{brunch.ID, eggs.ID}},
		{name: "in cart and author", filter: domain.RecipeFilter{IsInShoppingCart: &yes, Author: &alice}, actorID: f.bob.ID, want: []uint{eggs.ID}},
		{name: "anonymous identity filter", filter: domain.RecipeFilter{IsFavorited: &no}, want: []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes, total, err := f.repo.ListRecipes(ctx, tt.filter, tt.actorID, 10, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(recipes))
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}
}

func TestGormRepository_ListRecipes_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	salt := domain.IngredientAmount{IngredientID: f.salt.ID, Amount: 1}
	first := f.createRecipe(t, f.alice, "One", []uint{f.dinner.ID}, salt)
	f.createRecipe(t, f.alice, "Two", []uint{f.dinner.ID}, salt)
	f.createRecipe(t, f.alice, "Three", []uint{f.dinner.ID}, salt)

	recipes, total, err := f.repo.ListRecipes(ctx, domain.RecipeFilter{}, 0, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, recipes, 1)
	assert.Equal(t, first.ID, recipes[0].ID)
}

func TestGormRepository_Relations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	recipe := f.createRecipe(t, f.alice, "Cake", []uint{f.dinner.ID}, domain.IngredientAmount{IngredientID: f.sugar.ID, Amount: 100})

	require.NoError(t, f.repo.AddRelation(ctx, domain.FavoriteRelation, f.bob.ID, recipe.ID))
	err := f.repo.AddRelation(ctx, domain.FavoriteRelation, f.bob.ID, recipe.ID)
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	related, err := f.repo.RelatedTargets(ctx, domain.FavoriteRelation, f.bob.ID, []uint{recipe.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{recipe.ID: true}, related)

	related, err = f.repo.RelatedTargets(ctx, domain.FavoriteRelation, 0, []uint{recipe.ID})
	require.NoError(t, err)
	assert.Empty(t, related)

	require.NoError(t, f.repo.RemoveRelation(ctx, domain.FavoriteRelation, f.bob.ID, recipe.ID))
	err = f.repo.RemoveRelation(ctx, domain.FavoriteRelation, f.bob.ID, recipe.ID)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
}

func TestGormRepository_Subscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carol := domain.User{ID: 3, Username: "carol"}
	require.NoError(t, f.repo.EnsureUser(ctx, &carol))

	require.NoError(t, f.repo.AddRelation(ctx, domain.SubscribeRelation, f.alice.ID, carol.ID))
	require.NoError(t, f.repo.AddRelation(ctx, domain.SubscribeRelation, f.alice.ID, f.bob.ID))
	require.NoError(t, f.repo.AddRelation(ctx, domain.SubscribeRelation, f.bob.ID, carol.ID))

	authors, total, err := f.repo.ListSubscriptions(ctx, f.alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, authors, 2)
	assert.Equal(t, "bob", authors[0].Username)
	assert.Equal(t, "carol", authors[1].Username)

	subscribers, err := f.repo.FindSubscribers(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, subscribers, 2)
	assert.Equal(t, "alice", subscribers[0].Username)
	assert.Equal(t, "bob", subscribers[1].Username)
}

func TestGormRepository_EnsureUser_RefreshesProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	again := domain.User{ID: f.alice.ID, Username: "alice", Email: "changed@example.com", FirstName: "Alicia"}
	require.NoError(t, f.repo.EnsureUser(ctx, &again))
	require.NoError(t, f.repo.EnsureUser(ctx, &again))

	user, err := f.repo.FindUserByID(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "changed@example.com", user.Email)
	assert.Equal(t, "Alicia", user.FirstName)

	var count int64
	require.NoError(t, f.repo.db.Model(&domain.User{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestGormRepository_EnsureUser_UsernameTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	impostor := domain.User{ID: 99, Username: f.alice.Username}
	err := f.repo.EnsureUser(ctx, &impostor)
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	renamed := domain.User{ID: f.bob.ID, Username: f.alice.Username}
	err = f.repo.EnsureUser(ctx, &renamed)
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	bob, err := f.repo.FindUserByID(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", bob.Username)
}

func TestGormRepository_ShoppingTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.createRecipe(t, f.alice, "Bread", []uint{f.breakfast.ID},
		domain.IngredientAmount{IngredientID: f.flour.ID, Amount: 1},
		domain.IngredientAmount{IngredientID: f.salt.ID, Amount: 5},
	)
	second := f.createRecipe(t, f.alice, "Pizza", []uint{f.dinner.ID},
		domain.IngredientAmount{IngredientID: f.flour.ID, Amount: 2},
		domain.IngredientAmount{IngredientID: f.salt.ID, Amount: 10},
	)
	f.createRecipe(t, f.alice, "Candy", []uint{f.dinner.ID}, domain.IngredientAmount{IngredientID: f.sugar.ID, Amount: 50})
	require.NoError(t, f.repo.AddRelation(ctx, domain.ShoppingRelation, f.bob.ID, first.ID))
	require.NoError(t, f.repo.AddRelation(ctx, domain.ShoppingRelation, f.bob.ID, second.ID))

	totals, err := f.repo.ShoppingTotals(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.IngredientTotal{
		{Name: "flour", Unit: "kg", Amount: 3},
		{Name: "salt", Unit: "g", Amount: 15},
	}, totals)
}

func TestGormRepository_ReferenceData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tags, err := f.repo.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Slug)

	ingredients, err := f.repo.ListIngredients(ctx)
	require.NoError(t, err)
	require.Len(t, ingredients, 3)
	assert.Equal(t, "flour", ingredients[0].Name)

	_, err = f.repo.FindIngredientByID(ctx, 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	_, err = f.repo.FindTagByID(ctx, 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
