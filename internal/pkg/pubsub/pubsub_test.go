package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client
}

func TestDecisionMessage_JSON(t *testing.T) {
	msg := &DecisionMessage{
		Type:       TypeAccessDecision,
		UserID:     "u1",
		Endpoint:   "read",
		Allowed:    true,
		UsageCount: 1,
		Quota:      3,
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Contains(t, raw, "user_id")
	assert.Contains(t, raw, "usage_count")
	_, hasReason := raw["reason"]
	assert.False(t, hasReason, "empty reason should be omitted")
}

func TestNewPublisher_DefaultChannel(t *testing.T) {
	client := setupTestRedis(t)

	assert.Equal(t, DefaultDecisionChannel, NewPublisher(client, "").channel)
	assert.Equal(t, "custom", NewPublisher(client, "custom").channel)
	assert.Equal(t, DefaultDecisionChannel, NewSubscriber(client, "").channel)
}

func TestPublisherSubscriber(t *testing.T) {
	client := setupTestRedis(t)

	publisher := NewPublisher(client, "decisions_test")
	subscriber := NewSubscriber(client, "decisions_test")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan *DecisionMessage, 1)
	go func() {
		_ = subscriber.Subscribe(ctx, func(msg *DecisionMessage) {
			received <- msg
		})
	}()

	require.Eventually(t, func() bool {
		counts, err := client.PubSubNumSub(ctx, "decisions_test").Result()
		return err == nil && counts["decisions_test"] > 0
	}, 2*time.Second, 10*time.Millisecond)

	err := publisher.PublishDecision(ctx, &DecisionMessage{
		UserID:     "u1",
		Endpoint:   "read",
		Allowed:    true,
		UsageCount: 1,
		Quota:      3,
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, TypeAccessDecision, msg.Type)
		assert.Equal(t, "u1", msg.UserID)
		assert.Equal(t, "read", msg.Endpoint)
		assert.True(t, msg.Allowed)
		assert.Equal(t, int64(2), msg.Remaining) // 自动计算
	case <-ctx.Done():
		t.Fatal("Timeout waiting for message")
	}
}

func TestSubscriber_StopsOnCancel(t *testing.T) {
	client := setupTestRedis(t)
	subscriber := NewSubscriber(client, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- subscriber.Subscribe(ctx, func(*DecisionMessage) {})
	}()

	cancel()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}
