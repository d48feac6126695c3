package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/foodgram/internal/recipe/domain"
)

var tracer = otel.Tracer("recipe-repository")

// TracingRepository wraps a domain.Repository with tracing
type TracingRepository struct {
	next domain.Repository
}

// NewTracingRepository creates a new repository with tracing
func NewTracingRepository(next domain.Repository) *TracingRepository {
	return &TracingRepository{next: next}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// CreateRecipe with tracing
func (r *TracingRepository) CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagIDs []uint, items []domain.IngredientAmount) (err error) {
	ctx, span := tracer.Start(ctx, "repository.CreateRecipe",
		trace.WithAttributes(
			attribute.String("recipe.name", recipe.Name),
			attribute.Int("recipe.author_id", int(recipe.AuthorID)),
			attribute.Int("recipe.tags", len(tagIDs)),
			attribute.Int("recipe.ingredients", len(items)),
		),
	)
	defer func() { endSpan(span, err) }()

	if err = r.next.CreateRecipe(ctx, recipe, tagIDs, items); err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("recipe.id", int(recipe.ID)))
	return nil
}

// UpdateRecipe with tracing
func (r *TracingRepository) UpdateRecipe(ctx context.Context, id uint, changes domain.RecipeChanges, tagIDs []uint, items []domain.IngredientAmount) (recipe *domain.Recipe, err error) {
	ctx, span := tracer.Start(ctx, "repository.UpdateRecipe",
		trace.WithAttributes(
			attribute.Int("recipe.id", int(id)),
			attribute.Int("recipe.tags", len(tagIDs)),
			attribute.Int("recipe.ingredients", len(items)),
		),
	)
	defer func() { endSpan(span, err) }()

	return r.next.UpdateRecipe(ctx, id, changes, tagIDs, items)
}

// DeleteRecipe with tracing
func (r *TracingRepository) DeleteRecipe(ctx context.Context, id uint) (err error) {
	ctx, span := tracer.Start(ctx, "repository.DeleteRecipe",
		trace.WithAttributes(attribute.Int("recipe.id", int(id))),
	)
	defer func() { endSpan(span, err) }()

	return r.next.DeleteRecipe(ctx, id)
}

// FindRecipeByID with tracing
func (r *TracingRepository) FindRecipeByID(ctx context.Context, id uint) (recipe *domain.Recipe, err error) {
	ctx, span := tracer.Start(ctx, "repository.FindRecipeByID",
		trace.WithAttributes(attribute.Int("recipe.id", int(id))),
	)
	defer func() { endSpan(span, err) }()

	return r.next.FindRecipeByID(ctx, id)
}

// ListRecipes with tracing
func (r *TracingRepository) ListRecipes(ctx context.Context, filter domain.RecipeFilter, actorID uint, limit, offset int) (recipes []domain.Recipe, total int64, err error) {
	ctx, span := tracer.Start(ctx, "repository.ListRecipes",
		trace.WithAttributes(
			attribute.Int("actor.id", int(actorID)),
			attribute.StringSlice("filter.tags", filter.Tags),
			attribute.Bool("filter.identity", filter.RequiresIdentity()),
			attribute.Int("page.limit", limit),
			attribute.Int("page.offset", offset),
		),
	)
	defer func() { endSpan(span, err) }()

	recipes, total, err = r.next.ListRecipes(ctx, filter, actorID, limit, offset)
	if err == nil {
		span.SetAttributes(
			attribute.Int("recipes.count", len(recipes)),
			attribute.Int64("recipes.total", total),
		)
	}
	return recipes, total, err
}

// FindRecipesByAuthor with tracing
func (r *TracingRepository) FindRecipesByAuthor(ctx context.Context, authorID uint, limit int) (recipes []domain.Recipe, err error) {
	ctx, span := tracer.Start(ctx, "repository.FindRecipesByAuthor",
		trace.WithAttributes(
			attribute.Int("author.id", int(authorID)),
			attribute.Int("recipes.limit", limit),
		),
	)
	defer func() { endSpan(span, err) }()

	return r.next.FindRecipesByAuthor(ctx, authorID, limit)
}

// CountRecipesByAuthors with tracing
func (r *TracingRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (counts map[uint]int64, err error) {
	ctx, span := tracer.Start(ctx, "repository.CountRecipesByAuthors",
		trace.WithAttributes(attribute.Int("authors.count", len(authorIDs))),
	)
	defer func() { endSpan(span, err) }()

	return r.next.CountRecipesByAuthors(ctx, authorIDs)
}

// CountRecipes with tracing
func (r *TracingRepository) CountRecipes(ctx context.Context) (count int64, err error) {
	ctx, span := tracer.Start(ctx, "repository.CountRecipes")
	defer func() { endSpan(span, err) }()

	return r.next.CountRecipes(ctx)
}

// ListTags with tracing
func (r *TracingRepository) ListTags(ctx context.Context) (tags []domain.Tag, err error) {
	ctx, span := tracer.Start(ctx, "repository.ListTags")
	defer func() { endSpan(span, err) }()

	return r.next.ListTags(ctx)
}

// FindTagByID with tracing
func (r *TracingRepository) FindTagByID(ctx context.Context, id uint) (tag *domain.Tag, err error) {
	ctx, span := tracer.Start(ctx, "repository.FindTagByID",
		trace.WithAttributes(attribute.Int("tag.id", int(id))),
	)
	defer func() { endSpan(span, err) }()

	return r.next.FindTagByID(ctx, id)
}

// ListIngredients with tracing
func (r *TracingRepository) ListIngredients(ctx context.Context) (ingredients []domain.Ingredient, err error) {
	ctx, span := tracer.Start(ctx, "repository.ListIngredients")
	defer func() { endSpan(span, err) }()

	ingredients, err = r.next.ListIngredients(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("ingredients.count", len(ingredients)))
	}
	return ingredients, err
}

// FindIngredientByID with tracing
func (r *TracingRepository) FindIngredientByID(ctx context.Context, id uint) (ingredient *domain.Ingredient, err error) {
	ctx, span := tracer.Start(ctx, "repository.FindIngredientByID",
		trace.WithAttributes(attribute.Int("ingredient.id", int(id))),
	)
	defer func() { endSpan(span, err) }()

	return r.next.FindIngredientByID(ctx, id)
}

// FindUserByID with tracing
func (r *TracingRepository) FindUserByID(ctx context.Context, id uint) (user *domain.User, err error) {
	ctx, span := tracer.Start(ctx, "repository.FindUserByID",
		trace.WithAttributes(attribute.Int("user.id", int(id))),
	)
	defer func() { endSpan(span, err) }()

	return r.next.FindUserByID(ctx, id)
}

// EnsureUser with tracing
func (r *TracingRepository) EnsureUser(ctx context.Context, user *domain.User) (err error) {
	ctx, span := tracer.Start(ctx, "repository.EnsureUser",
		trace.WithAttributes(
			attribute.Int("user.id", int(user.ID)),
			attribute.String("user.username", user.Username),
		),
	)
	defer func() { endSpan(span, err) }()

	return r.next.EnsureUser(ctx, user)
}

// ListSubscriptions with tracing
func (r *TracingRepository) ListSubscriptions(ctx context.Context, subscriberID uint, limit, offset int) (users []domain.User, total int64, err error) {
	ctx, span := tracer.Start(ctx, "repository.ListSubscriptions",
		trace.WithAttributes(
			attribute.Int("subscriber.id", int(subscriberID)),
			attribute.Int("page.limit", limit),
			attribute.Int("page.offset", offset),
		),
	)
	defer func() { endSpan(span, err) }()

	return r.next.ListSubscriptions(ctx, subscriberID, limit, offset)
}

// FindSubscribers with tracing
func (r *TracingRepository) FindSubscribers(ctx context.Context, authorID uint) (users []domain.User, err error) {
	ctx, span := tracer.Start(ctx, "repository.FindSubscribers",
		trace.WithAttributes(attribute.Int("author.id", int(authorID))),
	)
	defer func() { endSpan(span, err) }()

	return r.next.FindSubscribers(ctx, authorID)
}

// AddRelation with tracing
func (r *TracingRepository) AddRelation(ctx context.Context, kind domain.RelationKind, actorID, targetID uint) (err error) {
	ctx, span := tracer.Start(ctx, "repository.AddRelation",
		trace.WithAttributes(
			attribute.String("relation.kind", kind.Name),
			attribute.Int("actor.id", int(actorID)),
			attribute.Int("target.id", int(targetID)),
		),
	)
	defer func() { endSpan(span, err) }()

	return r.next.AddRelation(ctx, kind, actorID, targetID)
}

// RemoveRelation with tracing
func (r *TracingRepository) RemoveRelation(ctx context.Context, kind domain.RelationKind, actorID, targetID uint) (err error) {
	ctx, span := tracer.Start(ctx, "repository.RemoveRelation",
		trace.WithAttributes(
			attribute.String("relation.kind", kind.Name),
			attribute.Int("actor.id", int(actorID)),
			attribute.Int("target.id", int(targetID)),
		),
	)
	defer func() { endSpan(span, err) }()

	return r.next.RemoveRelation(ctx, kind, actorID, targetID)
}

// RelatedTargets with tracing
func (r *TracingRepository) RelatedTargets(ctx context.Context, kind domain.RelationKind, actorID uint, targetIDs []uint) (related map[uint]bool, err error) {
	ctx, span := tracer.Start(ctx, "repository.RelatedTargets",
		trace.WithAttributes(
			attribute.String("relation.kind", kind.Name),
			attribute.Int("actor.id", int(actorID)),
			attribute.Int("targets.count", len(targetIDs)),
		),
	)
	defer func() { endSpan(span, err) }()

	return r.next.RelatedTargets(ctx, kind, actorID, targetIDs)
}

// ShoppingTotals with tracing
func (r *TracingRepository) ShoppingTotals(ctx context.Context, userID uint) (totals []domain.IngredientTotal, err error) {
	ctx, span := tracer.Start(ctx, "repository.ShoppingTotals",
		trace.WithAttributes(attribute.Int("user.id", int(userID))),
	)
	defer func() { endSpan(span, err) }()

	totals, err = r.next.ShoppingTotals(ctx, userID)
	if err == nil {
		span.SetAttributes(attribute.Int("totals.count", len(totals)))
	}
	return totals, err
}
