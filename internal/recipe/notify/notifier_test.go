package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/repository/repotest"
	"github.com/tair/foodgram/kafka"
)

type recordingSink struct {
	delivered []Notification
	failFor   uint
}

func (s *recordingSink) Deliver(_ context.Context, n Notification) error {
	if n.SubscriberID == s.failFor {
		return errors.New("mailbox unavailable")
	}
	s.delivered = append(s.delivered, n)
	return nil
}

func TestNotifier_HandleRecipeCreated(t *testing.T) {
	s := repotest.New(t)
	ctx := context.Background()
	carol := domain.User{ID: 3, Username: "carol", Email: "carol@example.com"}
	require.NoError(t, s.Repo.EnsureUser(ctx, &carol))
	require.NoError(t, s.Repo.AddRelation(ctx, domain.SubscribeRelation, s.Bob.ID, s.Alice.ID))
	require.NoError(t, s.Repo.AddRelation(ctx, domain.SubscribeRelation, carol.ID, s.Alice.ID))

	sink := &recordingSink{}
	notifier := NewNotifier(s.Repo, sink)

	err := notifier.HandleRecipeCreated(ctx, kafka.RecipeEvent{
		EventID:    "evt-1",
		EventType:  kafka.EventTypeRecipeCreated,
		RecipeID:   7,
		RecipeName: "Soup",
		AuthorID:   s.Alice.ID,
	})
	require.NoError(t, err)

	require.Len(t, sink.delivered, 2)
	assert.Equal(t, "bob", sink.delivered[0].Username)
	assert.Equal(t, "carol", sink.delivered[1].Username)
	assert.Equal(t, uint(7), sink.delivered[1].RecipeID)
	assert.Equal(t, "Soup", sink.delivered[1].RecipeName)
}

func TestNotifier_FailedDeliveryDoesNotStopOthers(t *testing.T) {
	s := repotest.New(t)
	ctx := context.Background()
	carol := domain.User{ID: 3, Username: "carol"}
	require.NoError(t, s.Repo.EnsureUser(ctx, &carol))
	require.NoError(t, s.Repo.AddRelation(ctx, domain.SubscribeRelation, s.Bob.ID, s.Alice.ID))
	require.NoError(t, s.Repo.AddRelation(ctx, domain.SubscribeRelation, carol.ID, s.Alice.ID))

	sink := &recordingSink{failFor: s.Bob.ID}
	require.NoError(t, NewNotifier(s.Repo, sink).HandleRecipeCreated(ctx, kafka.RecipeEvent{RecipeID: 1, AuthorID: s.Alice.ID}))

	require.Len(t, sink.delivered, 1)
	assert.Equal(t, carol.ID, sink.delivered[0].SubscriberID)
}

func TestNotifier_NoSubscribers(t *testing.T) {
	s := repotest.New(t)
	sink := &recordingSink{}

	require.NoError(t, NewNotifier(s.Repo, sink).HandleRecipeCreated(context.Background(), kafka.RecipeEvent{RecipeID: 1, AuthorID: s.Bob.ID}))
	assert.Empty(t, sink.delivered)
}

func TestNotifier_RejectsEventWithoutAuthor(t *testing.T) {
	s := repotest.New(t)
	err := NewNotifier(s.Repo, LogSink{}).HandleRecipeCreated(context.Background(), kafka.RecipeEvent{EventID: "evt-2"})
	assert.Error(t, err)
}
