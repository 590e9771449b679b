package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
)

var seq int64

func next() int64 {
	return atomic.AddInt64(&seq, 1)
}

func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := next()
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // placeholder, not a real hash
	user := &model.User{
		Name:         fmt.Sprintf("Test User %d", n),
		Email:        fmt.Sprintf("test_%d_%d@example.com", n, time.Now().UnixNano()),
		PasswordHash: &passwordHash,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

func WithName(name string) func(*model.User) {
	return func(u *model.User) {
		u.Name = name
	}
}

func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithoutPassword mimics an account created through Meta login.
func WithoutPassword() func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = nil
	}
}

// WithPassword stores a real bcrypt hash of password.
func WithPassword(password string) func(*model.User) {
	return func(u *model.User) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		s := string(hash)
		u.PasswordHash = &s
	}
}

// TestWorkspace creates a workspace owned by ownerID, with the owner seated.
func TestWorkspace(t *testing.T, db *gorm.DB, ownerID int64, opts ...func(*model.Workspace)) *model.Workspace {
	t.Helper()

	ws := &model.Workspace{
		Name:    fmt.Sprintf("Workspace %d", next()),
		OwnerID: ownerID,
	}
	for _, opt := range opts {
		opt(ws)
	}

	if err := db.Create(ws).Error; err != nil {
		t.Fatalf("Failed to create test workspace: %v", err)
	}
	TestMember(t, db, ws.ID, ownerID, model.MemberRoleOwner)

	return ws
}

func WithWorkspaceName(name string) func(*model.Workspace) {
	return func(w *model.Workspace) {
		w.Name = name
	}
}

func TestMember(t *testing.T, db *gorm.DB, workspaceID, userID int64, role string) *model.WorkspaceMember {
	t.Helper()

	member := &model.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}
	return member
}

// TestSeats adds n fresh users as MEMBERs of the workspace.
func TestSeats(t *testing.T, db *gorm.DB, workspaceID int64, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		u := TestUser(t, db)
		TestMember(t, db, workspaceID, u.ID, model.MemberRoleMember)
	}
}

func TestWorkspacePlan(t *testing.T, db *gorm.DB, workspaceID int64, plan model.Plan, opts ...func(*model.WorkspacePlan)) *model.WorkspacePlan {
	t.Helper()

	rec := &model.WorkspacePlan{
		WorkspaceID: workspaceID,
		Plan:        plan,
		Status:      model.PlanStatusActive,
		StartedAt:   time.Now().Add(-time.Hour),
	}
	for _, opt := range opts {
		opt(rec)
	}

	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("Failed to create test workspace plan: %v", err)
	}
	return rec
}

func WithPlanStatus(status model.PlanStatus) func(*model.WorkspacePlan) {
	return func(p *model.WorkspacePlan) {
		p.Status = status
	}
}

func WithExpiresAt(at time.Time) func(*model.WorkspacePlan) {
	return func(p *model.WorkspacePlan) {
		p.ExpiresAt = &at
	}
}

func TestInvitation(t *testing.T, db *gorm.DB, workspaceID, invitedBy int64, email string, opts ...func(*model.Invitation)) *model.Invitation {
	t.Helper()

	inv := &model.Invitation{
		WorkspaceID: workspaceID,
		Email:       email,
		Role:        model.MemberRoleMember,
		Token:       fmt.Sprintf("token-%d-%d", next(), time.Now().UnixNano()),
		Status:      model.InvitationStatusPending,
		InvitedBy:   invitedBy,
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}
	for _, opt := range opts {
		opt(inv)
	}

	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("Failed to create test invitation: %v", err)
	}
	return inv
}

func WithInvitationExpiresAt(at time.Time) func(*model.Invitation) {
	return func(i *model.Invitation) {
		i.ExpiresAt = at
	}
}

func TestChannelAccount(t *testing.T, db *gorm.DB, workspaceID int64, channel model.Channel, externalID string) *model.ChannelAccount {
	t.Helper()

	acct := &model.ChannelAccount{
		WorkspaceID: workspaceID,
		Channel:     channel,
		ExternalID:  externalID,
		Name:        "Test Page " + externalID,
		AccessToken: "page-token",
		ConnectedBy: 1,
	}
	if err := db.Create(acct).Error; err != nil {
		t.Fatalf("Failed to create test channel account: %v", err)
	}
	return acct
}

func TestConversation(t *testing.T, db *gorm.DB, workspaceID, accountID int64, opts ...func(*model.Conversation)) *model.Conversation {
	t.Helper()

	now := time.Now()
	conv := &model.Conversation{
		WorkspaceID:      workspaceID,
		ChannelAccountID: accountID,
		Channel:          model.ChannelInstagram,
		CustomerID:       fmt.Sprintf("customer-%d", next()),
		CustomerHandle:   "customer",
		LastMessage:      "hello",
		LastMessageAt:    &now,
	}
	for _, opt := range opts {
		opt(conv)
	}

	if err := db.Create(conv).Error; err != nil {
		t.Fatalf("Failed to create test conversation: %v", err)
	}
	return conv
}

func WithUnread(n int) func(*model.Conversation) {
	return func(c *model.Conversation) {
		c.UnreadCount = n
	}
}

func WithConversationChannel(ch model.Channel) func(*model.Conversation) {
	return func(c *model.Conversation) {
		c.Channel = ch
	}
}

func TestLead(t *testing.T, db *gorm.DB, workspaceID int64, opts ...func(*model.Lead)) *model.Lead {
	t.Helper()

	lead := &model.Lead{
		WorkspaceID:    workspaceID,
		Channel:        model.ChannelInstagram,
		CustomerName:   fmt.Sprintf("Customer %d", next()),
		CustomerHandle: "customer",
		Status:         model.LeadStatusNew,
	}
	for _, opt := range opts {
		opt(lead)
	}

	if err := db.Create(lead).Error; err != nil {
		t.Fatalf("Failed to create test lead: %v", err)
	}
	return lead
}

func WithLeadStatus(status model.LeadStatus) func(*model.Lead) {
	return func(l *model.Lead) {
		l.Status = status
	}
}

func WithLeadCreatedAt(at time.Time) func(*model.Lead) {
	return func(l *model.Lead) {
		l.CreatedAt = at
	}
}

func TestOrder(t *testing.T, db *gorm.DB, workspaceID int64, opts ...func(*model.Order)) *model.Order {
	t.Helper()

	order := &model.Order{
		WorkspaceID:   workspaceID,
		CustomerName:  fmt.Sprintf("Customer %d", next()),
		Items:         "1x T-shirt",
		Amount:        25,
		Currency:      "USD",
		Status:        model.OrderStatusNew,
		PaymentStatus: model.PaymentStatusUnpaid,
	}
	for _, opt := range opts {
		opt(order)
	}

	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}
	return order
}

func WithOrderStatus(status model.OrderStatus) func(*model.Order) {
	return func(o *model.Order) {
		o.Status = status
	}
}

func WithPaymentStatus(status model.PaymentStatus) func(*model.Order) {
	return func(o *model.Order) {
		o.PaymentStatus = status
	}
}

func WithAmount(amount float64) func(*model.Order) {
	return func(o *model.Order) {
		o.Amount = amount
	}
}
