package domain

import (
	"time"
)

// Roles carried in identity tokens
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Field limits for recipe writes
const (
	MaxRecipeNameLength = 200
	MaxRecipeTextLength = 8000
	MinCookingTime      = 1
	MaxCookingTime      = 14400
	MinIngredientAmount = 1
)

// User mirrors an identity issued by the external identity provider.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:254"`
	Username  string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	FirstName string    `json:"first_name" gorm:"size:150"`
	LastName  string    `json:"last_name" gorm:"size:150"`
	CreatedAt time.Time `json:"-"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// Ingredient is immutable reference data loaded by the bulk importer.
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null;index"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null"`
}

// TableName specifies the table name
func (Ingredient) TableName() string {
	return "ingredients"
}

// Tag is reference data; Slug is the external filter key.
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:200;not null;index"`
	Color string `json:"color" gorm:"size:7"`
	Slug  string `json:"slug" gorm:"size:200;not null;uniqueIndex"`
}

// TableName specifies the table name
func (Tag) TableName() string {
	return "tags"
}

// Recipe is owned by its author. Tags and Ingredients are only populated on reads.
type Recipe struct {
	ID          uint               `json:"id" gorm:"primaryKey"`
	AuthorID    uint               `json:"author_id" gorm:"not null;index"`
	Author      User               `json:"-" gorm:"foreignKey:AuthorID"`
	Name        string             `json:"name" gorm:"size:200;not null;uniqueIndex"`
	Image       string             `json:"image" gorm:"not null"`
	Text        string             `json:"text" gorm:"size:8000;not null"`
	CookingTime int                `json:"cooking_time" gorm:"not null;default:5;check:chk_recipes_cooking_time,cooking_time >= 1 AND cooking_time <= 14400"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Tags        []RecipeTag        `json:"-" gorm:"foreignKey:RecipeID"`
	Ingredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID"`
}

// TableName specifies the table name
func (Recipe) TableName() string {
	return "recipes"
}

// IsOwnedBy reports whether the actor may modify the recipe.
func (r *Recipe) IsOwnedBy(actor Actor) bool {
	return !actor.IsAnonymous() && (r.AuthorID == actor.ID || actor.IsAdmin())
}

// RecipeIngredient links a recipe to an ingredient with an amount.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID"`
	Amount       int        `gorm:"not null;default:1"`
}

// TableName specifies the table name
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeTag links a recipe to a tag.
type RecipeTag struct {
	ID       uint `gorm:"primaryKey"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_recipe_tag"`
	TagID    uint `gorm:"not null;uniqueIndex:idx_recipe_tag"`
	Tag      Tag  `gorm:"foreignKey:TagID"`
}

// TableName specifies the table name
func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// Favorite marks a recipe as a user's favorite.
type Favorite struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_recipe_favorite"`
	RecipeID  uint `gorm:"not null;uniqueIndex:idx_user_recipe_favorite;index"`
	CreatedAt time.Time
}

// TableName specifies the table name
func (Favorite) TableName() string {
	return "favorites"
}

// Shopping puts a recipe into a user's shopping cart.
type Shopping struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_recipe_shopping"`
	RecipeID  uint `gorm:"not null;uniqueIndex:idx_user_recipe_shopping;index"`
	CreatedAt time.Time
}

// TableName specifies the table name
func (Shopping) TableName() string {
	return "shoppings"
}

// Subscribe makes SubscriberID a follower of AuthorID.
type Subscribe struct {
	ID           uint `gorm:"primaryKey"`
	AuthorID     uint `gorm:"not null;uniqueIndex:idx_author_subscriber;check:chk_author_not_subscriber,author_id <> subscriber_id"`
	SubscriberID uint `gorm:"not null;uniqueIndex:idx_author_subscriber;index"`
	CreatedAt    time.Time
}

// TableName specifies the table name
func (Subscribe) TableName() string {
	return "subscribes"
}

// IngredientAmount is one (ingredient, amount) pair of a recipe write.
type IngredientAmount struct {
	IngredientID uint `json:"id" validate:"gt=0"`
	Amount       int  `json:"amount" validate:"gte=1"`
}

// RecipeChanges holds the scalar fields of a partial update. Nil fields are left untouched.
type RecipeChanges struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
}

// Apply copies the non-nil changes onto recipe.
func (c RecipeChanges) Apply(recipe *Recipe) {
	if c.Name != nil {
		recipe.Name = *c.Name
	}
	if c.Text != nil {
		recipe.Text = *c.Text
	}
	if c.Image != nil {
		recipe.Image = *c.Image
	}
	if c.CookingTime != nil {
		recipe.CookingTime = *c.CookingTime
	}
}

// Models lists every table for migrations, parents first.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Favorite{},
		&Shopping{},
		&Subscribe{},
	}
}
