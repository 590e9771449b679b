package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/testutil"
)

func TestLeadRepository_GetByID_ScopedToWorkspace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewLeadRepository(db)
	lead := testutil.TestLead(t, db, 1)

	found, err := repo.GetByID(1, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusNew, found.Status)

	_, err = repo.GetByID(2, lead.ID)
	assert.Error(t, err)
}

func TestLeadRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewLeadRepository(db)
	testutil.TestLead(t, db, 1)
	testutil.TestLead(t, db, 1)
	testutil.TestLead(t, db, 1, testutil.WithLeadStatus(model.LeadStatusConverted))
	testutil.TestLead(t, db, 2)

	leads, total, err := repo.List(1, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, leads, 3)

	_, total, err = repo.List(1, string(model.LeadStatusConverted), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestLeadRepository_ListByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewLeadRepository(db)
	a := testutil.TestLead(t, db, 1)
	b := testutil.TestLead(t, db, 1)
	foreign := testutil.TestLead(t, db, 2)

	leads, err := repo.ListByIDs(1, []int64{a.ID, b.ID, foreign.ID})
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}

func TestLeadRepository_CountByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewLeadRepository(db)
	old := time.Now().AddDate(0, -2, 0)
	testutil.TestLead(t, db, 1)
	testutil.TestLead(t, db, 1, testutil.WithLeadStatus(model.LeadStatusConverted))
	testutil.TestLead(t, db, 1, testutil.WithLeadStatus(model.LeadStatusConverted))
	testutil.TestLead(t, db, 1, testutil.WithLeadStatus(model.LeadStatusLost), testutil.WithLeadCreatedAt(old))

	rows, err := repo.CountByStatus(1, nil, nil)
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	assert.Equal(t, int64(1), counts["NEW"])
	assert.Equal(t, int64(2), counts["CONVERTED"])
	assert.Equal(t, int64(1), counts["LOST"])

	from := time.Now().AddDate(0, -1, 0)
	rows, err = repo.CountByStatus(1, &from, nil)
	require.NoError(t, err)
	var total int64
	for _, row := range rows {
		total += row.Count
	}
	assert.Equal(t, int64(3), total)
}
