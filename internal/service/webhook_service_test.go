package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboop/inboop_server/config"
	"github.com/inboop/inboop_server/internal/pkg/queue"
	"github.com/inboop/inboop_server/internal/pkg/signature"
)

type memoryQueue struct {
	events []*queue.WebhookEvent
	err    error
}

func (q *memoryQueue) Push(_ context.Context, evt *queue.WebhookEvent) error {
	if q.err != nil {
		return q.err
	}
	q.events = append(q.events, evt)
	return nil
}

func newWebhookService(q EventQueue) *WebhookService {
	return NewWebhookService(&config.WebhookConfig{VerifyToken: "verify-me", AppSecret: "app-secret"}, q)
}

func TestWebhookService_VerifyChallenge(t *testing.T) {
	svc := newWebhookService(&memoryQueue{})

	got, err := svc.VerifyChallenge("subscribe", "verify-me", "1158201444")
	require.NoError(t, err)
	assert.Equal(t, "1158201444", got)

	_, err = svc.VerifyChallenge("subscribe", "wrong", "1")
	assert.ErrorIs(t, err, ErrVerifyTokenMismatch)
	_, err = svc.VerifyChallenge("unsubscribe", "verify-me", "1")
	assert.ErrorIs(t, err, ErrVerifyTokenMismatch)

	empty := NewWebhookService(&config.WebhookConfig{}, &memoryQueue{})
	_, err = empty.VerifyChallenge("subscribe", "", "1")
	assert.ErrorIs(t, err, ErrVerifyTokenMismatch)
}

func TestWebhookService_Ingest(t *testing.T) {
	q := &memoryQueue{}
	svc := newWebhookService(q)
	body := []byte(`{"object":"instagram","entry":[{"id":"ig-1","time":1,"messaging":[]}]}`)

	evt, err := svc.Ingest(context.Background(), body, signature.Sign("app-secret", body))
	require.NoError(t, err)
	require.Len(t, q.events, 1)
	assert.Equal(t, evt.ID, q.events[0].ID)
	assert.Equal(t, WebhookSourceMeta, evt.Source)
	assert.JSONEq(t, string(body), string(evt.Payload))
}

func TestWebhookService_Ingest_Rejections(t *testing.T) {
	body := []byte(`{"object":"page","entry":[]}`)

	tests := []struct {
		name   string
		body   []byte
		header string
		want   error
	}{
		{"missing signature", body, "", ErrInvalidSignature},
		{"wrong secret", body, signature.Sign("other", body), ErrInvalidSignature},
		{"not json", []byte("nope"), signature.Sign("app-secret", []byte("nope")), ErrInvalidPayload},
		{"no object", []byte(`{"entry":[]}`), signature.Sign("app-secret", []byte(`{"entry":[]}`)), ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &memoryQueue{}
			_, err := newWebhookService(q).Ingest(context.Background(), tt.body, tt.header)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, q.events)
		})
	}
}

func TestWebhookService_Ingest_WithoutAppSecret(t *testing.T) {
	q := &memoryQueue{}
	svc := NewWebhookService(&config.WebhookConfig{VerifyToken: "verify-me"}, q)
	body := []byte(`{"object":"page","entry":[]}`)

	evt, err := svc.Ingest(context.Background(), body, signature.Sign("", body))
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Nil(t, evt)
	assert.Empty(t, q.events)
}

func TestWebhookService_Ingest_QueueError(t *testing.T) {
	svc := newWebhookService(&memoryQueue{err: errors.New("redis down")})
	body, _ := json.Marshal(map[string]interface{}{"object": "page"})

	_, err := svc.Ingest(context.Background(), body, signature.Sign("app-secret", body))
	assert.EqualError(t, err, "redis down")
}
