package model

import (
	"time"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusConverted LeadStatus = "CONVERTED"
	LeadStatusClosed    LeadStatus = "CLOSED"
	LeadStatusLost      LeadStatus = "LOST"

	// Legacy values kept only so historical rows still load.
	LeadStatusContacted   LeadStatus = "CONTACTED"
	LeadStatusQualified   LeadStatus = "QUALIFIED"
	LeadStatusNegotiating LeadStatus = "NEGOTIATING"
	LeadStatusSpam        LeadStatus = "SPAM"
)

// Valid accepts current and legacy values.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusConverted, LeadStatusClosed, LeadStatusLost:
		return true
	}
	return s.Legacy()
}

// Legacy reports whether s is a read-only historical value.
func (s LeadStatus) Legacy() bool {
	switch s {
	case LeadStatusContacted, LeadStatusQualified, LeadStatusNegotiating, LeadStatusSpam:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s LeadStatus) Terminal() bool {
	switch s {
	case LeadStatusConverted, LeadStatusClosed, LeadStatusLost, LeadStatusSpam:
		return true
	}
	return false
}

type Lead struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	WorkspaceID    int64      `gorm:"not null;index" json:"workspace_id"`
	ConversationID *int64     `gorm:"index" json:"conversation_id,omitempty"`
	Channel        Channel    `gorm:"size:20" json:"channel"`
	CustomerName   string     `gorm:"size:100" json:"customer_name"`
	CustomerHandle string     `gorm:"size:100" json:"customer_handle"`
	Status         LeadStatus `gorm:"size:20;not null;default:NEW;index" json:"status"`
	Labels         string     `gorm:"size:500" json:"labels"` // comma separated
	Notes          string     `gorm:"type:text" json:"notes"`
	AssignedTo     *int64     `gorm:"index" json:"assigned_to,omitempty"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}
