package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/repository"
	"github.com/inboop/inboop_server/internal/testutil"
)

func setupLeadService(t *testing.T) (*LeadService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	planService := NewPlanService(workspaceRepo, repository.NewWorkspacePlanRepository(db), workspaceRepo)
	svc := NewLeadService(repository.NewLeadRepository(db), repository.NewConversationRepository(db), planService)

	return svc, db, func() { testutil.CleanupTestDB(t, db) }
}

func leadWorkspace(t *testing.T, db *gorm.DB, plan model.Plan) *model.Workspace {
	t.Helper()

	owner := testutil.TestUser(t, db)
	ws := testutil.TestWorkspace(t, db, owner.ID)
	testutil.TestWorkspacePlan(t, db, ws.ID, plan)
	return ws
}

func TestLeadService_Create(t *testing.T) {
	svc, db, cleanup := setupLeadService(t)
	defer cleanup()

	ws := leadWorkspace(t, db, model.PlanFree)
	lead, err := svc.Create(ws.ID, &dto.CreateLeadRequest{CustomerName: " Bea ", Channel: model.ChannelWhatsApp})
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusNew, lead.Status)
	assert.Equal(t, "Bea", lead.CustomerName)
	assert.Equal(t, model.ChannelWhatsApp, lead.Channel)
}

func TestLeadService_Create_FromConversation(t *testing.T) {
	svc, db, cleanup := setupLeadService(t)
	defer cleanup()

	ws := leadWorkspace(t, db, model.PlanFree)
	acct := testutil.TestChannelAccount(t, db, ws.ID, model.ChannelInstagram, "ig-1")
	conv := testutil.TestConversation(t, db, ws.ID, acct.ID, testutil.WithConversationChannel(model.ChannelInstagram))

	lead, err := svc.Create(ws.ID, &dto.CreateLeadRequest{ConversationID: &conv.ID})
	require.NoError(t, err)
	assert.Equal(t, model.ChannelInstagram, lead.Channel)
	assert.Equal(t, conv.CustomerHandle, lead.CustomerHandle)

	other := leadWorkspace(t, db, model.PlanFree)
	_, err = svc.Create(other.ID, &dto.CreateLeadRequest{ConversationID: &conv.ID})
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestLeadService_List(t *testing.T) {
	svc, db, cleanup := setupLeadService(t)
	defer cleanup()

	ws := leadWorkspace(t, db, model.PlanFree)
	testutil.TestLead(t, db, ws.ID)
	testutil.TestLead(t, db, ws.ID)
	testutil.TestLead(t, db, ws.ID, testutil.WithLeadStatus(model.LeadStatusLost))

	leads, total, err := svc.List(ws.ID, &dto.ListLeadsRequest{Status: "NEW", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, leads, 2)

	_, _, err = svc.List(ws.ID, &dto.ListLeadsRequest{Status: "BOGUS", Page: 1, PageSize: 20})
	assert.ErrorIs(t, err, ErrInvalidStatusFilter)

	// legacy rows remain filterable
	_, _, err = svc.List(ws.ID, &dto.ListLeadsRequest{Status: "CONTACTED", Page: 1, PageSize: 20})
	assert.NoError(t, err)
}

func TestLeadService_Get_OtherWorkspace(t *testing.T) {
	svc, db, cleanup := setupLeadService(t)
	defer cleanup()

	ws := leadWorkspace(t, db, model.PlanFree)
	other := leadWorkspace(t, db, model.PlanFree)
	lead := testutil.TestLead(t, db, ws.ID)

	_, err := svc.Get(other.ID, lead.ID)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestLeadService_UpdateStatus(t *testing.T) {
	svc, db, cleanup := setupLeadService(t)
	defer cleanup()

	ws := leadWorkspace(t, db, model.PlanFree)
	lead := testutil.TestLead(t, db, ws.ID)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	updated, err := svc.UpdateStatus(ws.ID, lead.ID, model.LeadStatusConverted)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusConverted, updated.Status)
	require.NotNil(t, updated.ClosedAt)
	assert.True(t, fixed.Equal(*updated.ClosedAt))

	_, err = svc.UpdateStatus(ws.ID, lead.ID, model.LeadStatusLost)
	assert.ErrorIs(t, err, ErrInvalidLeadTransition)

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "CONVERTED", te.From)
	assert.Equal(t, "LOST", te.To)

	stored, err := svc.Get(ws.ID, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusConverted, stored.Status)
}

func TestLeadService_UpdateStatus_Rejections(t *testing.T) {
	svc, db, cleanup := setupLeadService(t)
	defer cleanup()

	ws := leadWorkspace(t, db, model.PlanFree)

	tests := []struct {
		name string
		from model.LeadStatus
		to   model.LeadStatus
	}{
		{"legacy target", model.LeadStatusNew, model.LeadStatusContacted},
		{"self", model.LeadStatusNew, model.LeadStatusNew},
		{"unknown target", model.LeadStatusNew, model.LeadStatus("WON")},
		{"legacy source", model.LeadStatusQualified, model.LeadStatusConverted},
		{"terminal source", model.LeadStatusClosed, model.LeadStatusNew},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := testutil.TestLead(t, db, ws.ID, testutil.WithLeadStatus(tt.from))
			_, err := svc.UpdateStatus(ws.ID, lead.ID, tt.to)
			assert.ErrorIs(t, err, ErrInvalidLeadTransition)
		})
	}

	_, err := svc.UpdateStatus(ws.ID, 999999, model.LeadStatusClosed)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestLeadService_SetLabels(t *testing.T) {
	svc, db, cleanup := setupLeadService(t)
	defer cleanup()

	free := leadWorkspace(t, db, model.PlanFree)
	freeLead := testutil.TestLead(t, db, free.ID)
	_, err := svc.SetLabels(free.ID, freeLead.ID, []string{"vip"})
	assert.ErrorIs(t, err, ErrFeatureNotAvailable)

	var pe *PlanError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, model.PlanPro, pe.RequiredPlan)
	assert.Equal(t, model.FeatureCustomLabels, pe.Feature)

	pro := leadWorkspace(t, db, model.PlanPro)
	lead := testutil.TestLead(t, db, pro.ID)
	updated, err := svc.SetLabels(pro.ID, lead.ID, []string{" vip ", "wholesale", "vip", ""})
	require.NoError(t, err)
	assert.Equal(t, "vip,wholesale", updated.Labels)

	_, err = svc.SetLabels(pro.ID, lead.ID, []string{"a,b"})
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

func TestLeadService_BulkUpdateStatus(t *testing.T) {
	svc, db, cleanup := setupLeadService(t)
	defer cleanup()

	free := leadWorkspace(t, db, model.PlanFree)
	_, err := svc.BulkUpdateStatus(free.ID, &dto.BulkLeadStatusRequest{LeadIDs: []int64{1}, Status: model.LeadStatusLost})
	assert.ErrorIs(t, err, ErrFeatureNotAvailable)

	pro := leadWorkspace(t, db, model.PlanPro)
	a := testutil.TestLead(t, db, pro.ID)
	b := testutil.TestLead(t, db, pro.ID)
	done := testutil.TestLead(t, db, pro.ID, testutil.WithLeadStatus(model.LeadStatusConverted))
	foreign := testutil.TestLead(t, db, free.ID)

	result, err := svc.BulkUpdateStatus(pro.ID, &dto.BulkLeadStatusRequest{
		LeadIDs: []int64{a.ID, b.ID, a.ID, done.ID, foreign.ID},
		Status:  model.LeadStatusLost,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{a.ID, b.ID}, result.Updated)
	require.Len(t, result.Failed, 2)

	failed := map[int64]string{}
	for _, f := range result.Failed {
		failed[f.ID] = f.Error
	}
	assert.Contains(t, failed[done.ID], "invalid lead status transition")
	assert.Equal(t, ErrLeadNotFound.Error(), failed[foreign.ID])

	stored, err := svc.Get(free.ID, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusNew, stored.Status)
}

func TestLeadService_GatedWrites_InactivePlan(t *testing.T) {
	svc, db, cleanup := setupLeadService(t)
	defer cleanup()

	tests := []struct {
		name string
		opt  func(*model.WorkspacePlan)
		want error
	}{
		{"suspended", testutil.WithPlanStatus(model.PlanStatusSuspended), ErrPlanSuspended},
		{"expired", testutil.WithExpiresAt(time.Now().Add(-time.Hour)), ErrPlanExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner := testutil.TestUser(t, db)
			ws := testutil.TestWorkspace(t, db, owner.ID)
			testutil.TestWorkspacePlan(t, db, ws.ID, model.PlanPro, tt.opt)
			lead := testutil.TestLead(t, db, ws.ID)

			_, err := svc.SetLabels(ws.ID, lead.ID, []string{"vip"})
			assert.ErrorIs(t, err, tt.want)

			result, err := svc.BulkUpdateStatus(ws.ID, &dto.BulkLeadStatusRequest{
				LeadIDs: []int64{lead.ID},
				Status:  model.LeadStatusConverted,
			})
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, result)

			stored, err := svc.Get(ws.ID, lead.ID)
			require.NoError(t, err)
			assert.Equal(t, model.LeadStatusNew, stored.Status)
			assert.Empty(t, stored.Labels)
		})
	}
}
