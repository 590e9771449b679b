package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan_Spec(t *testing.T) {
	tests := []struct {
		plan      Plan
		maxUsers  int
		analytics bool
		api       bool
	}{
		{PlanFree, 2, false, false},
		{PlanPro, 10, true, false},
		{PlanEnterprise, 100, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.plan), func(t *testing.T) {
			assert.Equal(t, tt.maxUsers, tt.plan.MaxUsers())
			assert.Equal(t, tt.analytics, tt.plan.AnalyticsEnabled())
			assert.Equal(t, tt.api, tt.plan.APIAccessEnabled())
			assert.True(t, tt.plan.Valid())
		})
	}
}

func TestPlan_UnknownResolvesToFree(t *testing.T) {
	for _, p := range []Plan{"", "GOLD", "pro"} {
		assert.False(t, p.Valid())
		assert.Equal(t, PlanFree, p.Spec().Plan)
		assert.Equal(t, 2, p.MaxUsers())
	}
}

func TestPlan_AtLeast(t *testing.T) {
	assert.True(t, PlanEnterprise.AtLeast(PlanPro))
	assert.True(t, PlanPro.AtLeast(PlanPro))
	assert.False(t, PlanFree.AtLeast(PlanPro))
	// "FREE" > "ENTERPRISE" by name; rank must win
	assert.False(t, PlanFree.AtLeast(PlanEnterprise))
}

func TestFeature_MinimumPlan(t *testing.T) {
	assert.Equal(t, PlanFree, FeatureInviteUsers.MinimumPlan())
	assert.Equal(t, PlanPro, FeatureAnalyticsDashboard.MinimumPlan())
	assert.Equal(t, PlanPro, FeatureAnalyticsExport.MinimumPlan())
	assert.Equal(t, PlanPro, FeatureWebhookAccess.MinimumPlan())
	assert.Equal(t, PlanPro, FeatureCustomLabels.MinimumPlan())
	assert.Equal(t, PlanPro, FeatureBulkOperations.MinimumPlan())
	assert.Equal(t, PlanEnterprise, FeatureAPIAccess.MinimumPlan())
	assert.Equal(t, PlanEnterprise, FeaturePrioritySupport.MinimumPlan())

	assert.Len(t, Features(), 8)
	for _, f := range Features() {
		assert.True(t, f.Valid(), f)
	}
	assert.False(t, Feature("TELEPATHY").Valid())
}

func TestStatusEnums_AcceptLegacyValues(t *testing.T) {
	for _, s := range []LeadStatus{LeadStatusContacted, LeadStatusQualified, LeadStatusNegotiating, LeadStatusSpam} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, LeadStatus("WON").Valid())
}
