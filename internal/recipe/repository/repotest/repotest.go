// Package repotest provides an in-memory recipe store seeded with reference data for tests.
package repotest

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/repository"
)

// Store is a migrated sqlite database with two users, two tags and three ingredients
type Store struct {
	DB   *gorm.DB
	Repo *repository.GormRepository

	Alice, Bob         domain.User
	Breakfast, Dinner  domain.Tag
	Salt, Sugar, Flour domain.Ingredient
}

// New opens a fresh in-memory store
func New(t testing.TB) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	repo := repository.NewGormRepository(db)
	require.NoError(t, repo.AutoMigrate())

	s := &Store{
		DB:        db,
		Repo:      repo,
		Alice:     domain.User{ID: 1, Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Cook"},
		Bob:       domain.User{ID: 2, Username: "bob", Email: "bob@example.com", FirstName: "Bob", LastName: "Baker"},
		Breakfast: domain.Tag{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		Dinner:    domain.Tag{Name: "Dinner", Color: "#49B64E", Slug: "dinner"},
		Salt:      domain.Ingredient{Name: "salt", MeasurementUnit: "g"},
		Sugar:     domain.Ingredient{Name: "sugar", MeasurementUnit: "g"},
		Flour:     domain.Ingredient{Name: "flour", MeasurementUnit: "kg"},
	}

	ctx := context.Background()
	require.NoError(t, repo.EnsureUser(ctx, &s.Alice))
	require.NoError(t, repo.EnsureUser(ctx, &s.Bob))
	for _, row := range []interface{}{&s.Breakfast, &s.Dinner, &s.Salt, &s.Sugar, &s.Flour} {
		require.NoError(t, db.Create(row).Error)
	}
	return s
}

// Actor returns the authenticated actor for a seeded user
func Actor(user domain.User) domain.Actor {
	return domain.Actor{ID: user.ID, Username: user.Username, Role: domain.RoleUser}
}

// CreateRecipe inserts a recipe tagged and filled with the given references
func (s *Store) CreateRecipe(t testing.TB, author domain.User, name string, tags []domain.Tag, items ...domain.IngredientAmount) *domain.Recipe {
	t.Helper()

	tagIDs := make([]uint, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	recipe := &domain.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "recipes/" + name + ".png",
		Text:        "Cook " + name + " slowly.",
		CookingTime: 15,
	}
	require.NoError(t, s.Repo.CreateRecipe(context.Background(), recipe, tagIDs, items))
	return recipe
}

// Amount builds an ingredient amount pair
func Amount(ingredient domain.Ingredient, amount int) domain.IngredientAmount {
	return domain.IngredientAmount{IngredientID: ingredient.ID, Amount: amount}
}
