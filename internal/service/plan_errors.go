package service

import (
	"errors"
	"fmt"

	"github.com/inboop/inboop_server/internal/model"
)

const (
	PlanErrorLimitReached        = "PLAN_LIMIT_REACHED"
	PlanErrorFeatureNotAvailable = "FEATURE_NOT_AVAILABLE"
	PlanErrorExpired             = "PLAN_EXPIRED"
	PlanErrorSuspended           = "PLAN_SUSPENDED"
)

// Kinds of *PlanError, for errors.Is.
var (
	ErrPlanLimitReached    = errors.New("plan limit reached")
	ErrFeatureNotAvailable = errors.New("feature not available on current plan")
	ErrPlanExpired         = errors.New("plan expired")
	ErrPlanSuspended       = errors.New("plan suspended")
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrInvalidPlan       = errors.New("unknown plan")
)

// PlanError is a plan gating denial. It carries everything a client needs
// to render an upgrade prompt.
type PlanError struct {
	Code             string        `json:"code"`
	Message          string        `json:"message"`
	UpgradeSuggested bool          `json:"upgrade_suggested"`
	CurrentPlan      model.Plan    `json:"current_plan"`
	RequiredPlan     model.Plan    `json:"required_plan,omitempty"`
	Feature          model.Feature `json:"feature,omitempty"`
	MaxUsers         int           `json:"max_users,omitempty"`
}

func (e *PlanError) Error() string {
	return e.Message
}

// Is matches the kind sentinel for the error code.
func (e *PlanError) Is(target error) bool {
	switch target {
	case ErrPlanLimitReached:
		return e.Code == PlanErrorLimitReached
	case ErrFeatureNotAvailable:
		return e.Code == PlanErrorFeatureNotAvailable
	case ErrPlanExpired:
		return e.Code == PlanErrorExpired
	case ErrPlanSuspended:
		return e.Code == PlanErrorSuspended
	}
	return false
}

func newPlanLimitReached(current model.Plan, maxUsers int) *PlanError {
	return &PlanError{
		Code:             PlanErrorLimitReached,
		Message:          fmt.Sprintf("Your %s plan allows up to %d users. Upgrade to add more team members.", current.Spec().DisplayName, maxUsers),
		UpgradeSuggested: current != model.PlanEnterprise,
		CurrentPlan:      current,
		MaxUsers:         maxUsers,
	}
}

func newFeatureNotAvailable(current model.Plan, feature model.Feature) *PlanError {
	required := feature.MinimumPlan()
	return &PlanError{
		Code:             PlanErrorFeatureNotAvailable,
		Message:          fmt.Sprintf("%s requires the %s plan or higher.", feature, required.Spec().DisplayName),
		UpgradeSuggested: true,
		CurrentPlan:      current,
		RequiredPlan:     required,
		Feature:          feature,
	}
}

func newPlanExpired(current model.Plan) *PlanError {
	return &PlanError{
		Code:             PlanErrorExpired,
		Message:          "Your subscription has expired. Renew to continue using paid features.",
		UpgradeSuggested: true,
		CurrentPlan:      current,
	}
}

func newPlanSuspended(current model.Plan) *PlanError {
	return &PlanError{
		Code:        PlanErrorSuspended,
		Message:     "Your subscription is suspended. Contact support to reactivate it.",
		CurrentPlan: current,
	}
}
