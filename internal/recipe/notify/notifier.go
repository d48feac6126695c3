// Package notify tells subscribers about recipes published by the authors they follow.
package notify

import (
	"context"
	"fmt"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/logger"
)

// Notification is one message addressed to one subscriber
type Notification struct {
	SubscriberID uint
	Username     string
	Email        string
	AuthorID     uint
	RecipeID     uint
	RecipeName   string
}

// Sink delivers notifications
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// LogSink writes every notification to the structured log
type LogSink struct{}

// Deliver logs the notification
func (LogSink) Deliver(ctx context.Context, n Notification) error {
	logger.Info(ctx).
		Uint("subscriber_id", n.SubscriberID).
		Str("username", n.Username).
		Uint("author_id", n.AuthorID).
		Uint("recipe_id", n.RecipeID).
		Str("recipe_name", n.RecipeName).
		Msg("New recipe from a followed author")
	return nil
}

// Notifier fans recipe.created events out to the author's subscribers
type Notifier struct {
	users domain.UserRepository
	sink  Sink
}

// NewNotifier creates a new notifier
func NewNotifier(users domain.UserRepository, sink Sink) *Notifier {
	return &Notifier{users: users, sink: sink}
}

// Register binds the notifier to the consumer
func (n *Notifier) Register(consumer *kafka.Consumer) {
	consumer.RegisterHandler(kafka.EventTypeRecipeCreated, n.HandleRecipeCreated)
}

// HandleRecipeCreated delivers one notification per subscriber. A failed
// delivery is logged and does not stop the remaining ones.
func (n *Notifier) HandleRecipeCreated(ctx context.Context, event kafka.RecipeEvent) error {
	if event.AuthorID == 0 {
		return fmt.Errorf("recipe event %s has no author", event.EventID)
	}

	subscribers, err := n.users.FindSubscribers(ctx, event.AuthorID)
	if err != nil {
		return fmt.Errorf("failed to find subscribers: %w", err)
	}

	failed := 0
	for _, subscriber := range subscribers {
		notification := Notification{
			SubscriberID: subscriber.ID,
			Username:     subscriber.Username,
			Email:        subscriber.Email,
			AuthorID:     event.AuthorID,
			RecipeID:     event.RecipeID,
			RecipeName:   event.RecipeName,
		}
		if err := n.sink.Deliver(ctx, notification); err != nil {
			failed++
			logger.Warn(ctx).Err(err).Uint("subscriber_id", subscriber.ID).Msg("Failed to deliver notification")
		}
	}

	logger.Debug(ctx).
		Uint("recipe_id", event.RecipeID).
		Int("subscribers", len(subscribers)).
		Int("failed", failed).
		Msg("Recipe notifications sent")
	return nil
}
