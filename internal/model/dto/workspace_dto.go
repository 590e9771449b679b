package dto

type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type WorkspaceInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	OwnerID   int64  `json:"owner_id"`
	Role      string `json:"role,omitempty"`
	Plan      string `json:"plan"`
	CreatedAt string `json:"created_at"`
}

type MemberInfo struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=ADMIN MEMBER"`
}

// InviteMemberResponse reports whether the user was added directly or an
// invitation was emailed.
type InviteMemberResponse struct {
	Added        bool        `json:"added"`
	Member       *MemberInfo `json:"member,omitempty"`
	InvitationID int64       `json:"invitation_id,omitempty"`
	ExpiresAt    string      `json:"expires_at,omitempty"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}
