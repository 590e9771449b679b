package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const ChannelInbox = "inbox_events"

const (
	EventMessageReceived = "message.received"
	EventLeadCreated     = "lead.created"
)

// InboxEvent tells workspace clients that their inbox changed.
type InboxEvent struct {
	Type           string    `json:"type"`
	WorkspaceID    int64     `json:"workspace_id"`
	ConversationID int64     `json:"conversation_id"`
	MessageID      int64     `json:"message_id,omitempty"`
	LeadID         int64     `json:"lead_id,omitempty"`
	Channel        string    `json:"channel,omitempty"`
	CustomerHandle string    `json:"customer_handle,omitempty"`
	Text           string    `json:"text,omitempty"`
	SentAt         time.Time `json:"sent_at"`
}

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishInbox fans evt out to every server instance.
func (p *Publisher) PublishInbox(ctx context.Context, evt *InboxEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal inbox event: %w", err)
	}

	return p.client.Publish(ctx, ChannelInbox, data).Err()
}

type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe delivers inbox events to handler until ctx is done. Undecodable
// payloads are skipped.
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*InboxEvent)) error {
	sub := s.client.Subscribe(ctx, ChannelInbox)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", ChannelInbox, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var evt InboxEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				continue
			}

			handler(&evt)
		}
	}
}
