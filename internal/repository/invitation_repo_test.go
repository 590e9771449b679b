package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/testutil"
)

func TestInvitationRepository_GetByToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewInvitationRepository(db)
	inv := testutil.TestInvitation(t, db, 1, 1, "new@shop.test")

	found, err := repo.GetByToken(inv.Token)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, found.ID)

	pending, err := repo.ExistsPending(1, "new@shop.test")
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestInvitationRepository_ExpirePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewInvitationRepository(db)
	stale := testutil.TestInvitation(t, db, 1, 1, "a@shop.test", testutil.WithInvitationExpiresAt(time.Now().Add(-time.Hour)))
	fresh := testutil.TestInvitation(t, db, 1, 1, "b@shop.test")

	n, err := repo.ExpirePending(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByToken(stale.Token)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationStatusExpired, got.Status)

	got, err = repo.GetByToken(fresh.Token)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationStatusPending, got.Status)
}
