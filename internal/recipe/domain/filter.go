package domain

import (
	"net/url"
	"strconv"
)

// Boolean choices accepted by identity-scoped recipe filters
const (
	ChoiceFalse = "0"
	ChoiceTrue  = "1"
)

// RecipeFilter holds the optional predicates of a recipe listing, combined with AND.
type RecipeFilter struct {
	Author           *uint
	Tags             []string
	IsFavorited      *bool
	IsInShoppingCart *bool
}

// RequiresIdentity reports whether a predicate is scoped to the requesting user.
func (f RecipeFilter) RequiresIdentity() bool {
	return f.IsFavorited != nil || f.IsInShoppingCart != nil
}

// Empty reports whether the filter can only yield an empty result for the actor.
// Identity-scoped predicates fail closed for anonymous actors.
func (f RecipeFilter) Empty(actor Actor) bool {
	return f.RequiresIdentity() && actor.IsAnonymous()
}

// ParseRecipeFilter reads recipe filters from query parameters. Unknown keys
// are ignored; malformed values are rejected before reaching the store.
func ParseRecipeFilter(values url.Values) (RecipeFilter, error) {
	var filter RecipeFilter
	fields := map[string]string{}

	if raw := values.Get("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			fields["author"] = "must be a user id"
		} else {
			author := uint(id)
			filter.Author = &author
		}
	}

	for _, slug := range values["tags"] {
		if slug != "" {
			filter.Tags = append(filter.Tags, slug)
		}
	}

	var err string
	if filter.IsFavorited, err = parseChoice(values, "is_favorited"); err != "" {
		fields["is_favorited"] = err
	}
	if filter.IsInShoppingCart, err = parseChoice(values, "is_in_shopping_cart"); err != "" {
		fields["is_in_shopping_cart"] = err
	}

	if len(fields) > 0 {
		return RecipeFilter{}, Validation("invalid filter", fields)
	}
	return filter, nil
}

func parseChoice(values url.Values, key string) (*bool, string) {
	raw := values.Get(key)
	if raw == "" {
		return nil, ""
	}
	var flag bool
	switch raw {
	case ChoiceTrue:
		flag = true
	case ChoiceFalse:
		flag = false
	default:
		return nil, "select a valid choice: 0 or 1"
	}
	return &flag, ""
}
