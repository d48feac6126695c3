package kafka

import "time"

// RecipeEvent represents a change in the recipe catalog or a user relation
type RecipeEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	RecipeID   uint      `json:"recipe_id,omitempty"`
	RecipeName string    `json:"recipe_name,omitempty"`
	AuthorID   uint      `json:"author_id,omitempty"`
	ActorID    uint      `json:"actor_id"`
	Relation   string    `json:"relation,omitempty"`
	TargetID   uint      `json:"target_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeRecipeCreated   = "recipe.created"
	EventTypeRecipeUpdated   = "recipe.updated"
	EventTypeRecipeDeleted   = "recipe.deleted"
	EventTypeRelationAdded   = "relation.added"
	EventTypeRelationRemoved = "relation.removed"
)

// Kafka topics
const (
	TopicRecipes = "foodgram-recipes"
)

// partitionKey keeps events of one recipe (or one relation target) ordered
func (e RecipeEvent) partitionKey() string {
	if e.RecipeID != 0 {
		return "recipe_" + uintString(e.RecipeID)
	}
	return "target_" + uintString(e.TargetID)
}
