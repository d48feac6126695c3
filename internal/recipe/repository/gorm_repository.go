package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/foodgram/internal/recipe/domain"
)

// GormRepository implements domain.Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM recipe repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GormRepository) AutoMigrate() error {
	return r.db.AutoMigrate(domain.Models()...)
}

// withDetails preloads everything the recipe read projection renders
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.id") }).
		Preload("Tags.Tag").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

// CreateRecipe inserts a recipe with its tags and ingredients atomically
func (r *GormRepository) CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagIDs []uint, items []domain.IngredientAmount) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, recipe.ID, tagIDs, items, false)
	})
	if err != nil {
		recipe.ID = 0
		return recipeWriteError(err)
	}
	return nil
}

// UpdateRecipe loads the recipe under a row lock, applies changes and replaces its associations
func (r *GormRepository) UpdateRecipe(ctx context.Context, id uint, changes domain.RecipeChanges, tagIDs []uint, items []domain.IngredientAmount) (*domain.Recipe, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe domain.Recipe
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("recipe")
			}
			return err
		}

		changes.Apply(&recipe)
		if err := tx.Omit(clause.Associations).Save(&recipe).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, recipe.ID, tagIDs, items, true)
	})
	if err != nil {
		return nil, recipeWriteError(err)
	}
	return r.FindRecipeByID(ctx, id)
}

// replaceAssociations writes the full tag and ingredient sets of a recipe.
// With replace set, existing rows are deleted first.
func replaceAssociations(tx *gorm.DB, recipeID uint, tagIDs []uint, items []domain.IngredientAmount, replace bool) error {
	ingredientIDs := make([]uint, 0, len(items))
	for _, item := range items {
		ingredientIDs = append(ingredientIDs, item.IngredientID)
	}
	if err := checkReferences(tx, &domain.Tag{}, tagIDs, "tags", "unknown tag id"); err != nil {
		return err
	}
	if err := checkReferences(tx, &domain.Ingredient{}, ingredientIDs, "ingredients", "unknown ingredient id"); err != nil {
		return err
	}

	if replace {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
	}

	if len(tagIDs) > 0 {
		rows := make([]domain.RecipeTag, 0, len(tagIDs))
		for _, tagID := range tagIDs {
			rows = append(rows, domain.RecipeTag{RecipeID: recipeID, TagID: tagID})
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return err
		}
	}

	if len(items) > 0 {
		rows := make([]domain.RecipeIngredient, 0, len(items))
		for _, item := range items {
			rows = append(rows, domain.RecipeIngredient{
				RecipeID:     recipeID,
				IngredientID: item.IngredientID,
				Amount:       item.Amount,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

// checkReferences fails with a validation error when any id is missing from the model's table
func checkReferences(tx *gorm.DB, model interface{}, ids []uint, field, message string) error {
	if len(ids) == 0 {
		return nil
	}
	distinct := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		distinct[id] = struct{}{}
	}
	var count int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(distinct)) {
		return domain.Validation("invalid "+field, map[string]string{field: message})
	}
	return nil
}

// recipeWriteError converts store failures of the write pipeline into domain errors
func recipeWriteError(err error) error {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if constraint, ok := uniqueConstraint(err); ok {
		field := recipeFieldForConstraint(constraint)
		messages := map[string]string{
			"name":        "recipe with this name already exists",
			"tags":        "tags must be unique",
			"ingredients": "ingredients must be unique",
		}
		return domain.Validation("recipe could not be saved", map[string]string{field: messages[field]})
	}
	return fmt.Errorf("failed to save recipe: %w", err)
}

// DeleteRecipe removes the recipe and cascades to every association row
func (r *GormRepository) DeleteRecipe(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&domain.RecipeIngredient{},
			&domain.RecipeTag{},
			&domain.Favorite{},
			&domain.Shopping{},
		}
		for _, model := range dependents {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete recipe associations: %w", err)
			}
		}

		result := tx.Delete(&domain.Recipe{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NotFound("recipe")
		}
		return nil
	})
}

// FindRecipeByID retrieves a recipe with author, tags and ingredients
func (r *GormRepository) FindRecipeByID(ctx context.Context, id uint) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("recipe")
		}
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	return &recipe, nil
}

// ListRecipes returns one page of filtered recipes, newest first, and the filtered total
func (r *GormRepository) ListRecipes(ctx context.Context, filter domain.RecipeFilter, actorID uint, limit, offset int) ([]domain.Recipe, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Scopes(FilterScope(filter, actorID)).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	query := withDetails(r.db.WithContext(ctx)).
		Scopes(FilterScope(filter, actorID)).
		Order("recipes.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var recipes []domain.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// FindRecipesByAuthor returns the author's newest recipes, capped by limit when positive
func (r *GormRepository) FindRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]domain.Recipe, error) {
	query := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []domain.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to find recipes by author: %w", err)
	}
	return recipes, nil
}

// CountRecipesByAuthors returns the number of recipes per author
func (r *GormRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes by author: %w", err)
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// CountRecipes returns the total number of recipes
func (r *GormRepository) CountRecipes(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Recipe{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

// ListTags returns all tags ordered by slug
func (r *GormRepository) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Order("slug").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// FindTagByID retrieves a tag by ID
func (r *GormRepository) FindTagByID(ctx context.Context, id uint) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("tag")
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	return &tag, nil
}

// ListIngredients returns all ingredients ordered by name
func (r *GormRepository) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// FindIngredientByID retrieves an ingredient by ID
func (r *GormRepository) FindIngredientByID(ctx context.Context, id uint) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("ingredient")
		}
		return nil, fmt.Errorf("failed to find ingredient: %w", err)
	}
	return &ingredient, nil
}

// FindUserByID retrieves a user by ID
func (r *GormRepository) FindUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("user")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// EnsureUser mirrors the user, refreshing the profile of an existing row.
// A username held by another ID yields a conflict.
func (r *GormRepository) EnsureUser(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "email", "first_name", "last_name"}),
	}).Create(user).Error
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		return domain.Conflict("username " + user.Username + " belongs to another user")
	}
	return fmt.Errorf("failed to ensure user: %w", err)
}

// ListSubscriptions returns the authors followed by subscriberID, ordered by username
func (r *GormRepository) ListSubscriptions(ctx context.Context, subscriberID uint, limit, offset int) ([]domain.User, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&domain.User{}).
			Joins("JOIN subscribes ON subscribes.author_id = users.id").
			Where("subscribes.subscriber_id = ?", subscriberID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	query := base().Order("users.username")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var users []domain.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return users, total, nil
}

// FindSubscribers returns every follower of the author
func (r *GormRepository) FindSubscribers(ctx context.Context, authorID uint) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN subscribes ON subscribes.subscriber_id = users.id").
		Where("subscribes.author_id = ?", authorID).
		Order("users.username").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to find subscribers: %w", err)
	}
	return users, nil
}

// AddRelation inserts the association row; the unique index guards against duplicates
func (r *GormRepository) AddRelation(ctx context.Context, kind domain.RelationKind, actorID, targetID uint) error {
	if err := r.db.WithContext(ctx).Create(kind.Row(actorID, targetID)).Error; err != nil {
		if IsUniqueViolation(err) {
			return domain.Conflict(kind.DuplicateMessage)
		}
		return fmt.Errorf("failed to add %s: %w", kind.Name, err)
	}
	return nil
}

// RemoveRelation deletes the association row; absence is reported as a conflict
func (r *GormRepository) RemoveRelation(ctx context.Context, kind domain.RelationKind, actorID, targetID uint) error {
	result := r.db.WithContext(ctx).
		Where(kind.ActorColumn+" = ? AND "+kind.TargetColumn+" = ?", actorID, targetID).
		Delete(kind.Model())
	if result.Error != nil {
		return fmt.Errorf("failed to remove %s: %w", kind.Name, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Conflict(kind.MissingMessage)
	}
	return nil
}

// RelatedTargets returns the subset of targetIDs related to the actor
func (r *GormRepository) RelatedTargets(ctx context.Context, kind domain.RelationKind, actorID uint, targetIDs []uint) (map[uint]bool, error) {
	related := make(map[uint]bool, len(targetIDs))
	if actorID == 0 || len(targetIDs) == 0 {
		return related, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(kind.Model()).
		Where(kind.ActorColumn+" = ?", actorID).
		Where(kind.TargetColumn+" IN ?", targetIDs).
		Pluck(kind.TargetColumn, &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s relations: %w", kind.Name, err)
	}
	for _, id := range ids {
		related[id] = true
	}
	return related, nil
}

// ShoppingTotals sums ingredient amounts across the user's cart, grouped by name and unit
func (r *GormRepository) ShoppingTotals(ctx context.Context, userID uint) ([]domain.IngredientTotal, error) {
	var totals []domain.IngredientTotal
	if err := r.db.WithContext(ctx).
		Table("shoppings").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN recipes ON recipes.id = shoppings.recipe_id").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shoppings.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping cart: %w", err)
	}
	return totals, nil
}
