package domain

import "context"

// RecipeRepository defines the contract for recipe data access
type RecipeRepository interface {
	// CreateRecipe inserts the recipe and its associations in one transaction.
	CreateRecipe(ctx context.Context, recipe *Recipe, tagIDs []uint, items []IngredientAmount) error
	// UpdateRecipe applies changes and replaces the tag and ingredient sets in one transaction.
	UpdateRecipe(ctx context.Context, id uint, changes RecipeChanges, tagIDs []uint, items []IngredientAmount) (*Recipe, error)
	// DeleteRecipe removes the recipe and every association row referencing it.
	DeleteRecipe(ctx context.Context, id uint) error
	FindRecipeByID(ctx context.Context, id uint) (*Recipe, error)
	ListRecipes(ctx context.Context, filter RecipeFilter, actorID uint, limit, offset int) ([]Recipe, int64, error)
	FindRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]Recipe, error)
	CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
	CountRecipes(ctx context.Context) (int64, error)
}

// ReferenceRepository defines read access to tags and ingredients
type ReferenceRepository interface {
	ListTags(ctx context.Context) ([]Tag, error)
	FindTagByID(ctx context.Context, id uint) (*Tag, error)
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	FindIngredientByID(ctx context.Context, id uint) (*Ingredient, error)
}

// UserRepository defines access to mirrored identities and subscriptions
type UserRepository interface {
	FindUserByID(ctx context.Context, id uint) (*User, error)
	// EnsureUser inserts the user or refreshes the profile stored under its ID.
	EnsureUser(ctx context.Context, user *User) error
	ListSubscriptions(ctx context.Context, subscriberID uint, limit, offset int) ([]User, int64, error)
	FindSubscribers(ctx context.Context, authorID uint) ([]User, error)
}

// RelationRepository manages favorite, shopping and subscribe rows
type RelationRepository interface {
	AddRelation(ctx context.Context, kind RelationKind, actorID, targetID uint) error
	RemoveRelation(ctx context.Context, kind RelationKind, actorID, targetID uint) error
	// RelatedTargets returns which of targetIDs the actor is related to.
	RelatedTargets(ctx context.Context, kind RelationKind, actorID uint, targetIDs []uint) (map[uint]bool, error)
}

// ShoppingRepository aggregates cart ingredients
type ShoppingRepository interface {
	ShoppingTotals(ctx context.Context, userID uint) ([]IngredientTotal, error)
}

// Repository is the full store used by the recipe service.
type Repository interface {
	RecipeRepository
	ReferenceRepository
	UserRepository
	RelationRepository
	ShoppingRepository
}
