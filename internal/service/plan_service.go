package service

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/inboop/inboop_server/internal/metrics"
	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/model/dto"
)

// MemberCounter reports the number of seats used by a workspace.
type MemberCounter interface {
	CountMembers(workspaceID int64) (int64, error)
}

// WorkspacePlanStore persists workspace plan records. FindByWorkspaceID
// returns (nil, nil) when the workspace has no record.
type WorkspacePlanStore interface {
	FindByWorkspaceID(workspaceID int64) (*model.WorkspacePlan, error)
	Create(plan *model.WorkspacePlan) error
	Update(plan *model.WorkspacePlan) error
	ExpireOverdue(now time.Time) (int64, error)
	ListOverdue(now time.Time) ([]*model.WorkspacePlan, error)
}

// WorkspaceLookup checks workspace existence.
type WorkspaceLookup interface {
	Exists(workspaceID int64) (bool, error)
}

// PlanService answers entitlement questions for a workspace. All reads are
// side-effect free; only CreateDefaultPlan and the administrative calls
// write to the store.
type PlanService struct {
	members    MemberCounter
	plans      WorkspacePlanStore
	workspaces WorkspaceLookup
	now        func() time.Time
}

// NewPlanService builds the plan engine over its three stores.
func NewPlanService(members MemberCounter, plans WorkspacePlanStore, workspaces WorkspaceLookup) *PlanService {
	return &PlanService{
		members:    members,
		plans:      plans,
		workspaces: workspaces,
		now:        time.Now,
	}
}

// record returns the stored plan or nil. Store failures are logged and
// read as "no record".
func (s *PlanService) record(workspaceID int64) *model.WorkspacePlan {
	rec, err := s.plans.FindByWorkspaceID(workspaceID)
	if err != nil {
		log.Error().Err(err).Int64("workspace_id", workspaceID).Msg("load workspace plan")
		return nil
	}
	return rec
}

// GetPlan returns the current tier, FREE when no record exists.
func (s *PlanService) GetPlan(workspaceID int64) model.Plan {
	rec := s.record(workspaceID)
	if rec == nil || !rec.Plan.Valid() {
		return model.PlanFree
	}
	return rec.Plan
}

// IsActive is true unless the record is suspended, expired or past its
// expiry time.
func (s *PlanService) IsActive(workspaceID int64) bool {
	rec := s.record(workspaceID)
	if rec == nil {
		return true
	}
	return s.activeErr(rec) == nil
}

func (s *PlanService) activeErr(rec *model.WorkspacePlan) error {
	switch {
	case rec.Status == model.PlanStatusSuspended:
		return newPlanSuspended(rec.Plan)
	case rec.Status == model.PlanStatusExpired:
		return newPlanExpired(rec.Plan)
	case rec.ExpiresAt != nil && rec.ExpiresAt.Before(s.now()):
		return newPlanExpired(rec.Plan)
	}
	return nil
}

// MaxUsersAllowed is the seat cap of the current tier.
func (s *PlanService) MaxUsersAllowed(workspaceID int64) int {
	return s.GetPlan(workspaceID).MaxUsers()
}

// CanInviteUser reports whether one more member fits under the seat cap.
func (s *PlanService) CanInviteUser(workspaceID int64) (bool, error) {
	used, err := s.members.CountMembers(workspaceID)
	if err != nil {
		return false, err
	}
	return used < int64(s.MaxUsersAllowed(workspaceID)), nil
}

// AssertCanInviteUser fails with PLAN_LIMIT_REACHED when the workspace is
// at or over its seat cap. Two concurrent invites may both pass; the seat
// count is not locked.
func (s *PlanService) AssertCanInviteUser(workspaceID int64) error {
	plan := s.GetPlan(workspaceID)
	used, err := s.members.CountMembers(workspaceID)
	if err != nil {
		return err
	}
	if used >= int64(plan.MaxUsers()) {
		return s.deny(newPlanLimitReached(plan, plan.MaxUsers()))
	}
	return nil
}

// IsFeatureEnabled compares the current tier with the feature's minimum by rank.
func (s *PlanService) IsFeatureEnabled(workspaceID int64, feature model.Feature) bool {
	return s.GetPlan(workspaceID).AtLeast(feature.MinimumPlan())
}

// AssertFeatureEnabled fails with FEATURE_NOT_AVAILABLE naming the tier
// that unlocks the feature.
func (s *PlanService) AssertFeatureEnabled(workspaceID int64, feature model.Feature) error {
	plan := s.GetPlan(workspaceID)
	if !plan.AtLeast(feature.MinimumPlan()) {
		return s.deny(newFeatureNotAvailable(plan, feature))
	}
	return nil
}

// AssertPlanActive is a no-op for workspaces without a record.
func (s *PlanService) AssertPlanActive(workspaceID int64) error {
	rec := s.record(workspaceID)
	if rec == nil {
		return nil
	}
	if err := s.activeErr(rec); err != nil {
		return s.deny(err)
	}
	return nil
}

// GetSeatInfo reports used, max and available seats. Available never
// goes below zero.
func (s *PlanService) GetSeatInfo(workspaceID int64) (*dto.SeatInfo, error) {
	used, err := s.members.CountMembers(workspaceID)
	if err != nil {
		return nil, err
	}
	maxUsers := s.MaxUsersAllowed(workspaceID)
	return &dto.SeatInfo{
		Used:      used,
		Max:       maxUsers,
		Available: seatsAvailable(used, maxUsers),
	}, nil
}

func seatsAvailable(used int64, maxUsers int) int64 {
	available := int64(maxUsers) - used
	if available < 0 {
		return 0
	}
	return available
}

// CreateDefaultPlan materializes a FREE/ACTIVE record. Callers must only
// invoke it for workspaces without a record.
func (s *PlanService) CreateDefaultPlan(workspaceID int64) (*model.WorkspacePlan, error) {
	exists, err := s.workspaces.Exists(workspaceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrWorkspaceNotFound
	}

	rec := &model.WorkspacePlan{
		WorkspaceID: workspaceID,
		Plan:        model.PlanFree,
		Status:      model.PlanStatusActive,
		StartedAt:   s.now(),
	}
	if err := s.plans.Create(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ChangePlan switches the tier and reactivates the record. A nil expiresAt
// means no expiry.
func (s *PlanService) ChangePlan(workspaceID int64, plan model.Plan, expiresAt *time.Time) (*model.WorkspacePlan, error) {
	if !plan.Valid() {
		return nil, ErrInvalidPlan
	}
	rec, err := s.loadOrCreate(workspaceID)
	if err != nil {
		return nil, err
	}

	rec.Plan = plan
	rec.Status = model.PlanStatusActive
	rec.StartedAt = s.now()
	rec.ExpiresAt = expiresAt
	if err := s.plans.Update(rec); err != nil {
		return nil, err
	}

	log.Info().Int64("workspace_id", workspaceID).Str("plan", string(plan)).Msg("workspace plan changed")
	return rec, nil
}

// Suspend blocks writes until Reactivate. A FREE record is created first
// when none exists.
func (s *PlanService) Suspend(workspaceID int64) (*model.WorkspacePlan, error) {
	return s.setStatus(workspaceID, model.PlanStatusSuspended)
}

// Reactivate sets the record back to ACTIVE.
func (s *PlanService) Reactivate(workspaceID int64) (*model.WorkspacePlan, error) {
	return s.setStatus(workspaceID, model.PlanStatusActive)
}

func (s *PlanService) setStatus(workspaceID int64, status model.PlanStatus) (*model.WorkspacePlan, error) {
	rec, err := s.loadOrCreate(workspaceID)
	if err != nil {
		return nil, err
	}
	rec.Status = status
	if err := s.plans.Update(rec); err != nil {
		return nil, err
	}
	log.Info().Int64("workspace_id", workspaceID).Str("status", string(status)).Msg("workspace plan status changed")
	return rec, nil
}

func (s *PlanService) loadOrCreate(workspaceID int64) (*model.WorkspacePlan, error) {
	rec, err := s.plans.FindByWorkspaceID(workspaceID)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}
	return s.CreateDefaultPlan(workspaceID)
}

// ExpireOverdue marks ACTIVE records whose expiry has passed as EXPIRED.
func (s *PlanService) ExpireOverdue() (int64, error) {
	return s.plans.ExpireOverdue(s.now())
}

// ListOverdue returns the records the next ExpireOverdue would touch.
func (s *PlanService) ListOverdue() ([]*model.WorkspacePlan, error) {
	return s.plans.ListOverdue(s.now())
}

// GetPlanInfo summarizes the plan, status, seats and enabled features.
func (s *PlanService) GetPlanInfo(workspaceID int64) (*dto.PlanInfo, error) {
	rec := s.record(workspaceID)
	plan := model.PlanFree
	status := model.PlanStatusActive
	info := &dto.PlanInfo{}
	if rec != nil {
		if rec.Plan.Valid() {
			plan = rec.Plan
		}
		status = rec.Status
		started := rec.StartedAt
		info.StartedAt = &started
		info.ExpiresAt = rec.ExpiresAt
	}

	seats, err := s.GetSeatInfo(workspaceID)
	if err != nil {
		return nil, err
	}

	info.Plan = plan.Spec()
	info.Status = status
	info.Active = rec == nil || s.activeErr(rec) == nil
	info.Seats = seats
	info.Features = enabledFeatures(plan)
	return info, nil
}

// Catalog lists every tier with the features it unlocks.
func (s *PlanService) Catalog() []*dto.PlanCatalogItem {
	plans := model.Plans()
	items := make([]*dto.PlanCatalogItem, 0, len(plans))
	for _, p := range plans {
		items = append(items, &dto.PlanCatalogItem{
			PlanSpec: p.Spec(),
			Features: enabledFeatures(p),
		})
	}
	return items
}

func enabledFeatures(plan model.Plan) []model.Feature {
	var features []model.Feature
	for _, f := range model.Features() {
		if plan.AtLeast(f.MinimumPlan()) {
			features = append(features, f)
		}
	}
	return features
}

func (s *PlanService) deny(err error) error {
	var pe *PlanError
	if errors.As(err, &pe) {
		metrics.RecordPlanDenial(pe.Code)
	}
	return err
}
