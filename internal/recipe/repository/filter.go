package repository

import (
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/recipe/domain"
)

// FilterScope narrows a recipes query to the filter's predicates, combined with AND.
// Identity-scoped predicates match nothing when actorID is zero.
func FilterScope(filter domain.RecipeFilter, actorID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.RequiresIdentity() && actorID == 0 {
			return db.Where("1 = 0")
		}

		if filter.Author != nil {
			db = db.Where("recipes.author_id = ?", *filter.Author)
		}

		if len(filter.Tags) > 0 {
			tagged := db.Session(&gorm.Session{NewDB: true}).
				Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.Tags)
			db = db.Where("recipes.id IN (?)", tagged)
		}

		db = relationPredicate(db, domain.FavoriteRelation, filter.IsFavorited, actorID)
		db = relationPredicate(db, domain.ShoppingRelation, filter.IsInShoppingCart, actorID)
		return db
	}
}

func relationPredicate(db *gorm.DB, kind domain.RelationKind, flag *bool, actorID uint) *gorm.DB {
	if flag == nil {
		return db
	}
	related := db.Session(&gorm.Session{NewDB: true}).
		Table(kind.Table).
		Select(kind.TargetColumn).
		Where(kind.ActorColumn+" = ?", actorID)
	if *flag {
		return db.Where("recipes.id IN (?)", related)
	}
	return db.Where("recipes.id NOT IN (?)", related)
}
