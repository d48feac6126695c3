package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	var sent RecipeEvent
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		return json.Unmarshal(value, &sent)
	})
	publisher := NewPublisherWithProducer(producer, "")

	err := publisher.Publish(context.Background(), RecipeEvent{
		EventType:  EventTypeRecipeCreated,
		RecipeID:   9,
		RecipeName: "Borscht",
		AuthorID:   3,
		ActorID:    3,
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Close())

	assert.Equal(t, EventTypeRecipeCreated, sent.EventType)
	assert.NotEmpty(t, sent.EventID)
	assert.False(t, sent.Timestamp.IsZero())
	assert.Equal(t, uint(9), sent.RecipeID)
}

func TestPublisher_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	publisher := NewPublisherWithProducer(producer, TopicRecipes)

	err := publisher.Publish(context.Background(), RecipeEvent{EventType: EventTypeRecipeDeleted, RecipeID: 1})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, publisher.Close())
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), RecipeEvent{}))
}

func message(t *testing.T, eventType string, event RecipeEvent) *sarama.ConsumerMessage {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return &sarama.ConsumerMessage{
		Topic: TopicRecipes,
		Value: value,
		Headers: []*sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
			{Key: []byte("event_id"), Value: []byte("evt-1")},
		},
	}
}

func TestConsumer_HandleMessage(t *testing.T) {
	consumer := newConsumer(nil, "group", []string{TopicRecipes})
	var received []RecipeEvent
	consumer.RegisterHandler(EventTypeRecipeCreated, func(ctx context.Context, event RecipeEvent) error {
		received = append(received, event)
		return nil
	})
	ctx := context.Background()

	require.NoError(t, consumer.handleMessage(ctx, message(t, EventTypeRecipeCreated, RecipeEvent{RecipeID: 5, AuthorID: 2})))
	require.NoError(t, consumer.handleMessage(ctx, message(t, EventTypeRecipeDeleted, RecipeEvent{RecipeID: 5})))

	require.Len(t, received, 1)
	assert.Equal(t, uint(5), received[0].RecipeID)
	assert.Equal(t, uint(2), received[0].AuthorID)
}

func TestConsumer_HandleMessageErrors(t *testing.T) {
	consumer := newConsumer(nil, "group", nil)
	failure := errors.New("boom")
	consumer.RegisterHandler(EventTypeRecipeCreated, func(ctx context.Context, event RecipeEvent) error {
		return failure
	})
	ctx := context.Background()

	err := consumer.handleMessage(ctx, &sarama.ConsumerMessage{Value: []byte("{}")})
	assert.Error(t, err)

	broken := message(t, EventTypeRecipeCreated, RecipeEvent{})
	broken.Value = []byte("not json")
	assert.Error(t, consumer.handleMessage(ctx, broken))

	err = consumer.handleMessage(ctx, message(t, EventTypeRecipeCreated, RecipeEvent{RecipeID: 1}))
	assert.ErrorIs(t, err, failure)
}
