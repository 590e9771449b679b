package model

import (
	"time"
)

type Channel string

const (
	ChannelInstagram Channel = "INSTAGRAM"
	ChannelMessenger Channel = "MESSENGER"
	ChannelWhatsApp  Channel = "WHATSAPP"
)

// Valid reports whether c is a supported messaging channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelInstagram, ChannelMessenger, ChannelWhatsApp:
		return true
	}
	return false
}

// ChannelAccount is a connected page / business account. Webhook events are
// routed to a workspace through ExternalID.
type ChannelAccount struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	WorkspaceID int64     `gorm:"not null;index" json:"workspace_id"`
	Channel     Channel   `gorm:"size:20;not null" json:"channel"`
	ExternalID  string    `gorm:"size:64;not null;uniqueIndex" json:"external_id"`
	Name        string    `gorm:"size:200" json:"name"`
	AccessToken string    `gorm:"type:text" json:"-"`
	ConnectedBy int64     `gorm:"not null" json:"connected_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ChannelAccount) TableName() string {
	return "channel_accounts"
}
