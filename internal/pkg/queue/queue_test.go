package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestNewWebhookEvent(t *testing.T) {
	evt := NewWebhookEvent("meta", []byte(`{"object":"page"}`))

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "meta", evt.Source)
	assert.JSONEq(t, `{"object":"page"}`, string(evt.Payload))
	assert.WithinDuration(t, time.Now(), evt.ReceivedAt, time.Second)
	assert.Zero(t, evt.Attempts)
}

func TestQueue_PushPop_FIFO(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_queue")
	ctx := context.Background()

	first := NewWebhookEvent("meta", []byte(`{"n":1}`))
	second := NewWebhookEvent("meta", []byte(`{"n":2}`))
	require.NoError(t, q.Push(ctx, first))
	require.NoError(t, q.Push(ctx, second))

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)

	got, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
	assert.JSONEq(t, `{"n":1}`, string(got.Payload))

	got, err = q.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestQueue_Pop_Empty(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_queue")

	got, err := q.Pop(context.Background(), 100*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQueue_Pop_InvalidJSON(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_queue")
	ctx := context.Background()
	require.NoError(t, client.LPush(ctx, "test_queue", "not json").Err())

	_, err := q.Pop(ctx, time.Second)
	assert.Error(t, err)
}

func TestQueue_Retry(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_queue")
	ctx := context.Background()
	evt := NewWebhookEvent("meta", []byte(`{}`))

	requeued, err := q.Retry(ctx, evt, 3)
	require.NoError(t, err)
	assert.True(t, requeued)
	assert.Equal(t, 1, evt.Attempts)

	requeued, err = q.Retry(ctx, evt, 3)
	require.NoError(t, err)
	assert.True(t, requeued)

	requeued, err = q.Retry(ctx, evt, 3)
	require.NoError(t, err)
	assert.False(t, requeued)

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)

	dead, err := client.LLen(ctx, q.DeadLetterName()).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), dead)
}
