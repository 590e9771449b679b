package model

import (
	"time"
)

type Conversation struct {
	ID               int64      `gorm:"primaryKey" json:"id"`
	WorkspaceID      int64      `gorm:"not null;index;uniqueIndex:idx_account_thread" json:"workspace_id"`
	ChannelAccountID int64      `gorm:"not null;uniqueIndex:idx_account_thread" json:"channel_account_id"`
	Channel          Channel    `gorm:"size:20;not null;index" json:"channel"`
	CustomerID       string     `gorm:"size:64;not null;uniqueIndex:idx_account_thread" json:"customer_id"`
	CustomerHandle   string     `gorm:"size:100" json:"customer_handle"`
	LastMessage      string     `gorm:"size:500" json:"last_message"`
	LastMessageAt    *time.Time `gorm:"index" json:"last_message_at,omitempty"`
	UnreadCount      int        `gorm:"default:0" json:"unread_count"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

const (
	DirectionInbound  = "INBOUND"
	DirectionOutbound = "OUTBOUND"
)

type Message struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	ConversationID int64     `gorm:"not null;index" json:"conversation_id"`
	ExternalID     string    `gorm:"size:128;uniqueIndex" json:"external_id"`
	Direction      string    `gorm:"size:10;not null" json:"direction"`
	Text           string    `gorm:"type:text" json:"text"`
	SentAt         time.Time `gorm:"not null;index" json:"sent_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}
