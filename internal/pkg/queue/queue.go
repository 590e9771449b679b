package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// WebhookEvent is a raw, signature-checked webhook body awaiting processing.
type WebhookEvent struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"received_at"`
	Attempts   int             `json:"attempts"`
}

func NewWebhookEvent(source string, payload []byte) *WebhookEvent {
	return &WebhookEvent{
		ID:         uuid.NewString(),
		Source:     source,
		Payload:    json.RawMessage(payload),
		ReceivedAt: time.Now().UTC(),
	}
}

// Queue is a FIFO redis list with a sibling dead-letter list.
type Queue struct {
	client    *redis.Client
	queueName string
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

func (q *Queue) Push(ctx context.Context, evt *WebhookEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop blocks up to timeout. It returns (nil, nil) when nothing arrived.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*WebhookEvent, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var evt WebhookEvent
	if err := json.Unmarshal([]byte(result[1]), &evt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &evt, nil
}

// Retry re-enqueues evt, or parks it on the dead-letter list once it has
// been attempted maxAttempts times. It reports whether evt was requeued.
func (q *Queue) Retry(ctx context.Context, evt *WebhookEvent, maxAttempts int) (bool, error) {
	evt.Attempts++
	if evt.Attempts >= maxAttempts {
		data, err := json.Marshal(evt)
		if err != nil {
			return false, err
		}
		return false, q.client.LPush(ctx, q.DeadLetterName(), data).Err()
	}
	return true, q.Push(ctx, evt)
}

// DeadLetterName is the list holding events that ran out of attempts.
func (q *Queue) DeadLetterName() string {
	return q.queueName + ":dead"
}

func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
