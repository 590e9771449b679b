package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(conv *model.Conversation) error {
	return r.db.Create(conv).Error
}

// CreateWithLead opens a conversation and its lead atomically.
func (r *ConversationRepository) CreateWithLead(conv *model.Conversation, lead *model.Lead) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		lead.ConversationID = &conv.ID
		return tx.Create(lead).Error
	})
}

// FindThread returns (nil, nil) when the customer has no thread on the account.
func (r *ConversationRepository) FindThread(accountID int64, customerID string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.Where("channel_account_id = ? AND customer_id = ?", accountID, customerID).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepository) GetByID(workspaceID, id int64) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepository) List(workspaceID int64, channel string, unreadOnly bool, page, pageSize int) ([]*model.Conversation, int64, error) {
	var convs []*model.Conversation
	var total int64

	query := r.db.Model(&model.Conversation{}).Where("workspace_id = ?", workspaceID)
	if channel != "" {
		query = query.Where("channel = ?", channel)
	}
	if unreadOnly {
		query = query.Where("unread_count > 0")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("last_message_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&convs).Error; err != nil {
		return nil, 0, err
	}

	return convs, total, nil
}

// AppendInbound stores an inbound message and bumps the thread preview and
// unread counter in one transaction.
func (r *ConversationRepository) AppendInbound(conv *model.Conversation, msg *model.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		msg.ConversationID = conv.ID
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).Where("id = ?", conv.ID).Updates(map[string]interface{}{
			"last_message":    truncate(msg.Text, 500),
			"last_message_at": msg.SentAt,
			"unread_count":    gorm.Expr("unread_count + 1"),
		}).Error
	})
}

func (r *ConversationRepository) MarkRead(workspaceID, id int64) error {
	return r.db.Model(&model.Conversation{}).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Update("unread_count", 0).Error
}

func (r *ConversationRepository) MessageExists(externalID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Message{}).Where("external_id = ?", externalID).Count(&count).Error
	return count > 0, err
}

// ListMessages returns the newest limit messages, oldest first.
func (r *ConversationRepository) ListMessages(conversationID int64, limit int) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("sent_at DESC, id DESC").
		Limit(limit).
		Find(&msgs).Error
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, err
}

func (r *ConversationRepository) CountInRange(workspaceID int64, from, to *time.Time) (int64, error) {
	var count int64
	query := withinRange(r.db.Model(&model.Conversation{}).Where("workspace_id = ?", workspaceID), "created_at", from, to)
	err := query.Count(&count).Error
	return count, err
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// withinRange limits column to [from, to); nil bounds are open.
func withinRange(query *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where(column+" >= ?", *from)
	}
	if to != nil {
		query = query.Where(column+" < ?", *to)
	}
	return query
}
