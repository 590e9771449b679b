package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/metrics"
	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/pkg/pubsub"
	"github.com/inboop/inboop_server/internal/pkg/queue"
	"github.com/inboop/inboop_server/internal/repository"
)

// ErrMalformedEvent marks payloads that can never be processed.
var ErrMalformedEvent = errors.New("malformed webhook event")

// InboxPublisher notifies connected clients about inbox changes.
type InboxPublisher interface {
	PublishInbox(ctx context.Context, evt *pubsub.InboxEvent) error
}

// Processor turns queued Meta webhook events into conversations, messages
// and leads. Processing an event twice is harmless: messages are keyed by
// their Meta id.
type Processor struct {
	accountRepo      *repository.ChannelAccountRepository
	conversationRepo *repository.ConversationRepository
	publisher        InboxPublisher
	now              func() time.Time
}

func NewProcessor(
	accountRepo *repository.ChannelAccountRepository,
	conversationRepo *repository.ConversationRepository,
	publisher InboxPublisher,
) *Processor {
	return &Processor{
		accountRepo:      accountRepo,
		conversationRepo: conversationRepo,
		publisher:        publisher,
		now:              time.Now,
	}
}

func (p *Processor) Process(ctx context.Context, evt *queue.WebhookEvent) error {
	var payload dto.MetaWebhookPayload
	if err := json.Unmarshal(evt.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	for _, entry := range payload.Entry {
		for _, m := range entry.Messaging {
			if err := p.handleMessaging(ctx, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Processor) handleMessaging(ctx context.Context, m dto.MetaMessaging) error {
	// reads, deliveries and our own replies carry nothing to store
	if m.Message == nil || m.Message.IsEcho || m.Message.MID == "" {
		metrics.RecordWebhookEvent("skipped")
		return nil
	}

	account, err := p.accountRepo.GetByExternalID(m.Recipient.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("recipient_id", m.Recipient.ID).Msg("webhook for unknown channel account")
			metrics.RecordWebhookEvent("unrouted")
			return nil
		}
		return err
	}

	exists, err := p.conversationRepo.MessageExists(m.Message.MID)
	if err != nil {
		return err
	}
	if exists {
		metrics.RecordWebhookEvent("duplicate")
		return nil
	}

	conv, lead, err := p.thread(account, m.Sender.ID)
	if err != nil {
		return err
	}

	sentAt := p.now()
	if m.Timestamp > 0 {
		sentAt = time.UnixMilli(m.Timestamp)
	}
	msg := &model.Message{
		ExternalID: m.Message.MID,
		Direction:  model.DirectionInbound,
		Text:       m.Message.Text,
		SentAt:     sentAt,
	}
	if err := p.conversationRepo.AppendInbound(conv, msg); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	metrics.RecordWebhookEvent("processed")

	p.publish(ctx, &pubsub.InboxEvent{
		Type:           pubsub.EventMessageReceived,
		WorkspaceID:    conv.WorkspaceID,
		ConversationID: conv.ID,
		MessageID:      msg.ID,
		Channel:        string(conv.Channel),
		CustomerHandle: conv.CustomerHandle,
		Text:           msg.Text,
		SentAt:         msg.SentAt,
	})
	if lead != nil {
		p.publish(ctx, &pubsub.InboxEvent{
			Type:           pubsub.EventLeadCreated,
			WorkspaceID:    lead.WorkspaceID,
			ConversationID: conv.ID,
			LeadID:         lead.ID,
			Channel:        string(lead.Channel),
			CustomerHandle: lead.CustomerHandle,
			SentAt:         msg.SentAt,
		})
	}
	return nil
}

// thread finds the customer's conversation on the account, opening it
// together with a NEW lead on first contact. The lead is nil when the
// conversation already existed.
func (p *Processor) thread(account *model.ChannelAccount, customerID string) (*model.Conversation, *model.Lead, error) {
	conv, err := p.conversationRepo.FindThread(account.ID, customerID)
	if err != nil {
		return nil, nil, err
	}
	if conv != nil {
		return conv, nil, nil
	}

	conv = &model.Conversation{
		WorkspaceID:      account.WorkspaceID,
		ChannelAccountID: account.ID,
		Channel:          account.Channel,
		CustomerID:       customerID,
		CustomerHandle:   customerID,
	}
	lead := &model.Lead{
		WorkspaceID:    account.WorkspaceID,
		Channel:        account.Channel,
		CustomerHandle: customerID,
		Status:         model.LeadStatusNew,
	}
	if err := p.conversationRepo.CreateWithLead(conv, lead); err != nil {
		return nil, nil, fmt.Errorf("open conversation: %w", err)
	}

	log.Info().
		Int64("workspace_id", account.WorkspaceID).
		Int64("conversation_id", conv.ID).
		Int64("lead_id", lead.ID).
		Msg("new conversation")
	return conv, lead, nil
}

func (p *Processor) publish(ctx context.Context, evt *pubsub.InboxEvent) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishInbox(ctx, evt); err != nil {
		log.Warn().Err(err).Str("type", evt.Type).Int64("workspace_id", evt.WorkspaceID).Msg("publish inbox event")
	}
}
