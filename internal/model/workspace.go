package model

import (
	"time"
)

type Workspace struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	OwnerID   int64     `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Workspace) TableName() string {
	return "workspaces"
}

const (
	MemberRoleOwner  = "OWNER"
	MemberRoleAdmin  = "ADMIN"
	MemberRoleMember = "MEMBER"
)

// WorkspaceMember is one seat of a workspace.
type WorkspaceMember struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	WorkspaceID int64     `gorm:"not null;uniqueIndex:idx_workspace_user" json:"workspace_id"`
	UserID      int64     `gorm:"not null;uniqueIndex:idx_workspace_user;index" json:"user_id"`
	Role        string    `gorm:"size:20;not null;default:MEMBER" json:"role"`
	CreatedAt   time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (WorkspaceMember) TableName() string {
	return "workspace_members"
}

const (
	InvitationStatusPending  = "PENDING"
	InvitationStatusAccepted = "ACCEPTED"
	InvitationStatusExpired  = "EXPIRED"
)

// Invitation is a pending seat offer for an email without an account.
type Invitation struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	WorkspaceID int64      `gorm:"not null;index" json:"workspace_id"`
	Email       string     `gorm:"size:100;not null;index" json:"email"`
	Role        string     `gorm:"size:20;not null" json:"role"`
	Token       string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Status      string     `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	InvitedBy   int64      `gorm:"not null" json:"invited_by"`
	ExpiresAt   time.Time  `gorm:"not null;index" json:"expires_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Invitation) TableName() string {
	return "invitations"
}
