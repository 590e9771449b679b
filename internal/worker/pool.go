package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/inboop/inboop_server/internal/metrics"
	"github.com/inboop/inboop_server/internal/pkg/queue"
)

const (
	popTimeout  = 5 * time.Second
	MaxAttempts = 5
)

// EventSource is the queue side the pool consumes.
type EventSource interface {
	Pop(ctx context.Context, timeout time.Duration) (*queue.WebhookEvent, error)
	Retry(ctx context.Context, evt *queue.WebhookEvent, maxAttempts int) (bool, error)
}

// EventHandler processes one event.
type EventHandler interface {
	Process(ctx context.Context, evt *queue.WebhookEvent) error
}

// Pool runs a fixed number of consumers over the webhook queue.
type Pool struct {
	source  EventSource
	handler EventHandler
	workers int
}

func NewPool(source EventSource, handler EventHandler, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{source: source, handler: handler, workers: workers}
}

// Run blocks until ctx is cancelled and every consumer has returned.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.loop(ctx, workerID)
		}(i)
	}
	wg.Wait()
}

func (p *Pool) loop(ctx context.Context, workerID int) {
	logger := log.With().Int("worker", workerID).Logger()
	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("worker shutting down")
			return
		default:
		}

		evt, err := p.source.Pop(ctx, popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error().Err(err).Msg("failed to pop event")
			// avoid spinning on a broken connection
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if evt == nil {
			continue
		}

		p.Handle(ctx, evt)
	}
}

// Handle processes evt and requeues it on failure. Malformed events go
// straight to the dead-letter list.
func (p *Pool) Handle(ctx context.Context, evt *queue.WebhookEvent) {
	err := p.handler.Process(ctx, evt)
	if err == nil {
		return
	}

	maxAttempts := MaxAttempts
	if errors.Is(err, ErrMalformedEvent) {
		maxAttempts = 0
	}

	requeued, rerr := p.source.Retry(ctx, evt, maxAttempts)
	if rerr != nil {
		log.Error().Err(rerr).Str("event_id", evt.ID).Msg("failed to requeue event")
		return
	}
	if requeued {
		metrics.RecordWebhookEvent("retried")
		log.Warn().Err(err).Str("event_id", evt.ID).Int("attempts", evt.Attempts).Msg("event failed, requeued")
		return
	}
	metrics.RecordWebhookEvent("dead")
	log.Error().Err(err).Str("event_id", evt.ID).Int("attempts", evt.Attempts).Msg("event dead-lettered")
}
