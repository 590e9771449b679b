package model

import (
	"time"
)

// Plan is a subscription tier. Tiers are ordered by Rank, never by name.
type Plan string

const (
	PlanFree       Plan = "FREE"
	PlanPro        Plan = "PRO"
	PlanEnterprise Plan = "ENTERPRISE"
)

// PlanSpec holds the entitlements of a tier.
type PlanSpec struct {
	Plan             Plan   `json:"plan"`
	DisplayName      string `json:"display_name"`
	Rank             int    `json:"rank"`
	MaxUsers         int    `json:"max_users"`
	AnalyticsEnabled bool   `json:"analytics_enabled"`
	APIAccessEnabled bool   `json:"api_access_enabled"`
}

var planCatalog = map[Plan]PlanSpec{
	PlanFree: {
		Plan:        PlanFree,
		DisplayName: "Free",
		Rank:        1,
		MaxUsers:    2,
	},
	PlanPro: {
		Plan:             PlanPro,
		DisplayName:      "Pro",
		Rank:             2,
		MaxUsers:         10,
		AnalyticsEnabled: true,
	},
	PlanEnterprise: {
		Plan:             PlanEnterprise,
		DisplayName:      "Enterprise",
		Rank:             3,
		MaxUsers:         100,
		AnalyticsEnabled: true,
		APIAccessEnabled: true,
	},
}

// Plans lists every tier in ascending rank.
func Plans() []Plan {
	return []Plan{PlanFree, PlanPro, PlanEnterprise}
}

// Spec returns the entitlements for p; unknown values resolve to FREE.
func (p Plan) Spec() PlanSpec {
	if spec, ok := planCatalog[p]; ok {
		return spec
	}
	return planCatalog[PlanFree]
}

// Valid reports whether p is a known tier.
func (p Plan) Valid() bool {
	_, ok := planCatalog[p]
	return ok
}

// Rank orders tiers: FREE 1, PRO 2, ENTERPRISE 3.
func (p Plan) Rank() int { return p.Spec().Rank }

// MaxUsers is the seat cap of the tier.
func (p Plan) MaxUsers() int { return p.Spec().MaxUsers }

// AnalyticsEnabled reports whether the tier includes analytics.
func (p Plan) AnalyticsEnabled() bool { return p.Spec().AnalyticsEnabled }

// APIAccessEnabled reports whether the tier includes API access.
func (p Plan) APIAccessEnabled() bool { return p.Spec().APIAccessEnabled }

// AtLeast reports whether p ranks at or above other.
func (p Plan) AtLeast(other Plan) bool {
	return p.Rank() >= other.Rank()
}

// Feature is a gated capability key.
type Feature string

const (
	FeatureInviteUsers        Feature = "INVITE_USERS"
	FeatureAnalyticsDashboard Feature = "ANALYTICS_DASHBOARD"
	FeatureAnalyticsExport    Feature = "ANALYTICS_EXPORT"
	FeatureAPIAccess          Feature = "API_ACCESS"
	FeatureWebhookAccess      Feature = "WEBHOOK_ACCESS"
	FeatureCustomLabels       Feature = "CUSTOM_LABELS"
	FeatureBulkOperations     Feature = "BULK_OPERATIONS"
	FeaturePrioritySupport    Feature = "PRIORITY_SUPPORT"
)

var featureCatalog = map[Feature]Plan{
	FeatureInviteUsers:        PlanFree,
	FeatureAnalyticsDashboard: PlanPro,
	FeatureAnalyticsExport:    PlanPro,
	FeatureWebhookAccess:      PlanPro,
	FeatureCustomLabels:       PlanPro,
	FeatureBulkOperations:     PlanPro,
	FeatureAPIAccess:          PlanEnterprise,
	FeaturePrioritySupport:    PlanEnterprise,
}

// Features lists every gated feature in a stable order.
func Features() []Feature {
	return []Feature{
		FeatureInviteUsers,
		FeatureAnalyticsDashboard,
		FeatureAnalyticsExport,
		FeatureAPIAccess,
		FeatureWebhookAccess,
		FeatureCustomLabels,
		FeatureBulkOperations,
		FeaturePrioritySupport,
	}
}

// MinimumPlan returns the lowest tier entitled to f. Unknown features
// require the top tier.
func (f Feature) MinimumPlan() Plan {
	if p, ok := featureCatalog[f]; ok {
		return p
	}
	return PlanEnterprise
}

// Valid reports whether f is in the feature catalog.
func (f Feature) Valid() bool {
	_, ok := featureCatalog[f]
	return ok
}

type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "ACTIVE"
	PlanStatusExpired   PlanStatus = "EXPIRED"
	PlanStatusSuspended PlanStatus = "SUSPENDED"
)

// WorkspacePlan is the subscription record of a workspace (1:1). A workspace
// without a row is on FREE/ACTIVE. Rows are never deleted.
type WorkspacePlan struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	WorkspaceID int64      `gorm:"not null;uniqueIndex" json:"workspace_id"`
	Plan        Plan       `gorm:"size:20;not null;default:FREE" json:"plan"`
	Status      PlanStatus `gorm:"size:20;not null;default:ACTIVE;index" json:"status"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	ExpiresAt   *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (WorkspacePlan) TableName() string {
	return "workspace_plans"
}
