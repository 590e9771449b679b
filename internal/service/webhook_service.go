package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/inboop/inboop_server/config"
	"github.com/inboop/inboop_server/internal/metrics"
	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/pkg/queue"
	"github.com/inboop/inboop_server/internal/pkg/signature"
)

const WebhookSourceMeta = "meta"

var (
	ErrVerifyTokenMismatch = errors.New("verify token mismatch")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrInvalidPayload      = errors.New("invalid webhook payload")
)

// EventQueue accepts webhook events for asynchronous processing.
type EventQueue interface {
	Push(ctx context.Context, evt *queue.WebhookEvent) error
}

type WebhookService struct {
	cfg   *config.WebhookConfig
	queue EventQueue
}

func NewWebhookService(cfg *config.WebhookConfig, q EventQueue) *WebhookService {
	return &WebhookService{cfg: cfg, queue: q}
}

// VerifyChallenge answers Meta's subscription handshake.
func (s *WebhookService) VerifyChallenge(mode, token, challenge string) (string, error) {
	if mode != "subscribe" || s.cfg.VerifyToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.VerifyToken)) != 1 {
		return "", ErrVerifyTokenMismatch
	}
	return challenge, nil
}

// Ingest checks the body signature and queues the raw payload. Nothing is
// parsed beyond the envelope; the worker does the rest. Without an app secret
// every payload is rejected.
func (s *WebhookService) Ingest(ctx context.Context, body []byte, sigHeader string) (*queue.WebhookEvent, error) {
	if s.cfg.AppSecret == "" {
		metrics.RecordWebhookEvent("rejected")
		log.Error().Msg("webhook app secret not configured, rejecting payload")
		return nil, ErrInvalidSignature
	}
	if err := signature.Verify(s.cfg.AppSecret, body, sigHeader); err != nil {
		metrics.RecordWebhookEvent("rejected")
		log.Warn().Err(err).Msg("webhook signature rejected")
		return nil, ErrInvalidSignature
	}

	var envelope dto.MetaWebhookPayload
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Object == "" {
		metrics.RecordWebhookEvent("invalid")
		return nil, ErrInvalidPayload
	}

	evt := queue.NewWebhookEvent(WebhookSourceMeta, body)
	if err := s.queue.Push(ctx, evt); err != nil {
		return nil, err
	}
	metrics.RecordWebhookEvent("enqueued")
	log.Debug().Str("event_id", evt.ID).Str("object", envelope.Object).Int("entries", len(envelope.Entry)).Msg("webhook enqueued")
	return evt, nil
}
