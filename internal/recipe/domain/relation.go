package domain

// TargetEntity is the kind of entity a relation points at.
type TargetEntity string

const (
	TargetRecipe TargetEntity = "recipe"
	TargetUser   TargetEntity = "user"
)

// RelationKind describes one actor->target association table. Favorite,
// Shopping and Subscribe share the same add/remove logic through it.
type RelationKind struct {
	Name         string
	Table        string
	ActorColumn  string
	TargetColumn string
	Target       TargetEntity
	// ForbidSelf rejects rows where actor and target are the same identity.
	ForbidSelf bool

	DuplicateMessage string
	MissingMessage   string
	SelfMessage      string

	newRow func(actorID, targetID uint) interface{}
}

// Row builds the association row for the pair.
func (k RelationKind) Row(actorID, targetID uint) interface{} {
	return k.newRow(actorID, targetID)
}

// Model returns an empty row, usable as a gorm model.
func (k RelationKind) Model() interface{} {
	return k.newRow(0, 0)
}

var (
	FavoriteRelation = RelationKind{
		Name:             "favorite",
		Table:            "favorites",
		ActorColumn:      "user_id",
		TargetColumn:     "recipe_id",
		Target:           TargetRecipe,
		DuplicateMessage: "recipe is already in favorites",
		MissingMessage:   "recipe is not in favorites",
		newRow: func(actorID, targetID uint) interface{} {
			return &Favorite{UserID: actorID, RecipeID: targetID}
		},
	}

	ShoppingRelation = RelationKind{
		Name:             "shopping_cart",
		Table:            "shoppings",
		ActorColumn:      "user_id",
		TargetColumn:     "recipe_id",
		Target:           TargetRecipe,
		DuplicateMessage: "recipe is already in the shopping cart",
		MissingMessage:   "recipe is not in the shopping cart",
		newRow: func(actorID, targetID uint) interface{} {
			return &Shopping{UserID: actorID, RecipeID: targetID}
		},
	}

	SubscribeRelation = RelationKind{
		Name:             "subscribe",
		Table:            "subscribes",
		ActorColumn:      "subscriber_id",
		TargetColumn:     "author_id",
		Target:           TargetUser,
		ForbidSelf:       true,
		DuplicateMessage: "already subscribed to this author",
		MissingMessage:   "not subscribed to this author",
		SelfMessage:      "cannot subscribe to yourself",
		newRow: func(actorID, targetID uint) interface{} {
			return &Subscribe{SubscriberID: actorID, AuthorID: targetID}
		},
	}
)
