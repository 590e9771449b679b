package service

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inboop/inboop_server/config"
	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/repository"
)

var (
	ErrNotMember               = errors.New("not a member of this workspace")
	ErrNotWorkspaceAdmin       = errors.New("only owners and admins can manage members")
	ErrAlreadyMember           = errors.New("user is already a member")
	ErrInvitationPending       = errors.New("an invitation is already pending for this email")
	ErrInvitationNotFound      = errors.New("invitation not found")
	ErrInvitationNotPending    = errors.New("invitation is no longer pending")
	ErrInvitationExpired       = errors.New("invitation has expired")
	ErrInvitationEmailMismatch = errors.New("invitation was sent to a different email")
	ErrCannotRemoveOwner       = errors.New("the workspace owner cannot be removed")
	ErrMemberNotFound          = errors.New("member not found")
)

// InvitationSender delivers invitation emails.
type InvitationSender interface {
	SendInvitation(to, workspaceName, inviterName, acceptURL string) error
}

type WorkspaceService struct {
	workspaceRepo  *repository.WorkspaceRepository
	userRepo       *repository.UserRepository
	invitationRepo *repository.InvitationRepository
	planRepo       *repository.WorkspacePlanRepository
	planService    *PlanService
	mailer         InvitationSender
	cfg            *config.InvitationConfig
	now            func() time.Time
}

func NewWorkspaceService(
	workspaceRepo *repository.WorkspaceRepository,
	userRepo *repository.UserRepository,
	invitationRepo *repository.InvitationRepository,
	planRepo *repository.WorkspacePlanRepository,
	planService *PlanService,
	mailer InvitationSender,
	cfg *config.InvitationConfig,
) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo:  workspaceRepo,
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		planRepo:       planRepo,
		planService:    planService,
		mailer:         mailer,
		cfg:            cfg,
		now:            time.Now,
	}
}

// Create makes a workspace owned by userID and gives it a FREE plan record.
func (s *WorkspaceService) Create(userID int64, req *dto.CreateWorkspaceRequest) (*dto.WorkspaceInfo, error) {
	ws := &model.Workspace{
		Name:    strings.TrimSpace(req.Name),
		OwnerID: userID,
	}
	if err := s.workspaceRepo.CreateWithOwner(ws); err != nil {
		return nil, err
	}

	rec, err := s.planService.CreateDefaultPlan(ws.ID)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("workspace_id", ws.ID).Int64("user_id", userID).Msg("workspace created")
	return &dto.WorkspaceInfo{
		ID:        ws.ID,
		Name:      ws.Name,
		OwnerID:   ws.OwnerID,
		Role:      model.MemberRoleOwner,
		Plan:      string(rec.Plan),
		CreatedAt: ws.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *WorkspaceService) ListForUser(userID int64) ([]*dto.WorkspaceInfo, error) {
	rows, err := s.workspaceRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	plans, err := s.planRepo.MapByWorkspaceIDs(ids)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.WorkspaceInfo, 0, len(rows))
	for _, row := range rows {
		plan := model.PlanFree
		if rec, ok := plans[row.ID]; ok && rec.Plan.Valid() {
			plan = rec.Plan
		}
		items = append(items, &dto.WorkspaceInfo{
			ID:        row.ID,
			Name:      row.Name,
			OwnerID:   row.OwnerID,
			Role:      row.Role,
			Plan:      string(plan),
			CreatedAt: row.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, nil
}

// Membership returns the caller's seat or ErrNotMember.
func (s *WorkspaceService) Membership(workspaceID, userID int64) (*model.WorkspaceMember, error) {
	member, err := s.workspaceRepo.GetMember(workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return member, nil
}

func (s *WorkspaceService) ListMembers(workspaceID int64) ([]*dto.MemberInfo, error) {
	members, err := s.workspaceRepo.ListMembers(workspaceID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.MemberInfo, 0, len(members))
	for _, m := range members {
		items = append(items, buildMemberInfo(m, m.User))
	}
	return items, nil
}

// InviteMember seats an existing user directly or emails an invitation to
// an unknown address. Both paths are gated by the plan's status and seat cap.
func (s *WorkspaceService) InviteMember(workspaceID, inviterID int64, req *dto.InviteMemberRequest) (*dto.InviteMemberResponse, error) {
	inviter, err := s.requireAdmin(workspaceID, inviterID)
	if err != nil {
		return nil, err
	}

	if err := s.planService.AssertPlanActive(workspaceID); err != nil {
		return nil, err
	}
	if err := s.planService.AssertCanInviteUser(workspaceID); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.MemberRoleMember
	}
	email := normalizeEmail(req.Email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if user != nil {
		isMember, err := s.workspaceRepo.IsMember(workspaceID, user.ID)
		if err != nil {
			return nil, err
		}
		if isMember {
			return nil, ErrAlreadyMember
		}

		member := &model.WorkspaceMember{WorkspaceID: workspaceID, UserID: user.ID, Role: role}
		if err := s.workspaceRepo.AddMember(member); err != nil {
			return nil, err
		}
		log.Info().Int64("workspace_id", workspaceID).Int64("user_id", user.ID).Msg("member added")
		return &dto.InviteMemberResponse{Added: true, Member: buildMemberInfo(member, user)}, nil
	}

	pending, err := s.invitationRepo.ExistsPending(workspaceID, email)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrInvitationPending
	}

	inv := &model.Invitation{
		WorkspaceID: workspaceID,
		Email:       email,
		Role:        role,
		Token:       strings.ReplaceAll(uuid.NewString(), "-", ""),
		Status:      model.InvitationStatusPending,
		InvitedBy:   inviterID,
		ExpiresAt:   s.now().Add(s.invitationTTL()),
	}
	if err := s.invitationRepo.Create(inv); err != nil {
		return nil, err
	}

	s.sendInvitation(inv, inviter)

	return &dto.InviteMemberResponse{
		InvitationID: inv.ID,
		ExpiresAt:    inv.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// sendInvitation is best effort; the invitation stays valid when delivery
// fails.
func (s *WorkspaceService) sendInvitation(inv *model.Invitation, inviter *model.WorkspaceMember) {
	if s.mailer == nil {
		return
	}

	wsName := "a workspace"
	if ws, err := s.workspaceRepo.GetByID(inv.WorkspaceID); err == nil {
		wsName = ws.Name
	}
	inviterName := "A teammate"
	if u, err := s.userRepo.GetByID(inviter.UserID); err == nil && u.Name != "" {
		inviterName = u.Name
	}

	if err := s.mailer.SendInvitation(inv.Email, wsName, inviterName, s.acceptURL(inv.Token)); err != nil {
		log.Error().Err(err).Int64("invitation_id", inv.ID).Msg("send invitation email")
	}
}

func (s *WorkspaceService) acceptURL(token string) string {
	base := ""
	if s.cfg != nil {
		base = s.cfg.AcceptURL
	}
	return base + "?token=" + url.QueryEscape(token)
}

func (s *WorkspaceService) invitationTTL() time.Duration {
	if s.cfg == nil || s.cfg.ExpireHours <= 0 {
		return 72 * time.Hour
	}
	return time.Duration(s.cfg.ExpireHours) * time.Hour
}

// AcceptInvitation seats userID in the inviting workspace. The seat cap is
// checked again since the workspace may have filled up meanwhile.
func (s *WorkspaceService) AcceptInvitation(userID int64, token string) (*dto.WorkspaceInfo, error) {
	inv, err := s.invitationRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	if inv.Status != model.InvitationStatusPending {
		return nil, ErrInvitationNotPending
	}
	if inv.ExpiresAt.Before(s.now()) {
		inv.Status = model.InvitationStatusExpired
		if err := s.invitationRepo.Update(inv); err != nil {
			log.Error().Err(err).Int64("invitation_id", inv.ID).Msg("expire invitation")
		}
		return nil, ErrInvitationExpired
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if normalizeEmail(user.Email) != inv.Email {
		return nil, ErrInvitationEmailMismatch
	}

	isMember, err := s.workspaceRepo.IsMember(inv.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		if err := s.planService.AssertPlanActive(inv.WorkspaceID); err != nil {
			return nil, err
		}
		if err := s.planService.AssertCanInviteUser(inv.WorkspaceID); err != nil {
			return nil, err
		}
		if err := s.workspaceRepo.AddMember(&model.WorkspaceMember{
			WorkspaceID: inv.WorkspaceID,
			UserID:      userID,
			Role:        inv.Role,
		}); err != nil {
			return nil, err
		}
	}

	now := s.now()
	inv.Status = model.InvitationStatusAccepted
	inv.AcceptedAt = &now
	if err := s.invitationRepo.Update(inv); err != nil {
		return nil, err
	}

	ws, err := s.workspaceRepo.GetByID(inv.WorkspaceID)
	if err != nil {
		return nil, err
	}
	return &dto.WorkspaceInfo{
		ID:        ws.ID,
		Name:      ws.Name,
		OwnerID:   ws.OwnerID,
		Role:      inv.Role,
		Plan:      string(s.planService.GetPlan(ws.ID)),
		CreatedAt: ws.CreatedAt.Format(time.RFC3339),
	}, nil
}

// RemoveMember frees a seat. Members may remove themselves; removing others
// needs OWNER or ADMIN. The owner can never be removed.
func (s *WorkspaceService) RemoveMember(workspaceID, actorID, userID int64) error {
	if actorID != userID {
		if _, err := s.requireAdmin(workspaceID, actorID); err != nil {
			return err
		}
	}

	target, err := s.workspaceRepo.GetMember(workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	if target.Role == model.MemberRoleOwner {
		return ErrCannotRemoveOwner
	}

	if err := s.workspaceRepo.RemoveMember(workspaceID, userID); err != nil {
		return err
	}
	log.Info().Int64("workspace_id", workspaceID).Int64("user_id", userID).Int64("actor_id", actorID).Msg("member removed")
	return nil
}

func (s *WorkspaceService) requireAdmin(workspaceID, userID int64) (*model.WorkspaceMember, error) {
	member, err := s.Membership(workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if member.Role != model.MemberRoleOwner && member.Role != model.MemberRoleAdmin {
		return nil, ErrNotWorkspaceAdmin
	}
	return member, nil
}

func buildMemberInfo(m *model.WorkspaceMember, u *model.User) *dto.MemberInfo {
	info := &dto.MemberInfo{
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.CreatedAt.Format(time.RFC3339),
	}
	if u != nil {
		info.Name = u.Name
		info.Email = u.Email
	}
	return info
}
