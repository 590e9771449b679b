package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/testutil"
)

func TestConversationRepository_FindThread(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConversationRepository(db)
	acct := testutil.TestChannelAccount(t, db, 1, model.ChannelInstagram, "ig-1")
	conv := testutil.TestConversation(t, db, 1, acct.ID)

	found, err := repo.FindThread(acct.ID, conv.CustomerID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, conv.ID, found.ID)

	missing, err := repo.FindThread(acct.ID, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestConversationRepository_AppendInbound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConversationRepository(db)
	acct := testutil.TestChannelAccount(t, db, 1, model.ChannelInstagram, "ig-1")
	conv := testutil.TestConversation(t, db, 1, acct.ID)

	sentAt := time.Now().Truncate(time.Second)
	for i, text := range []string{"is this in stock?", "size 42 please"} {
		msg := &model.Message{
			ExternalID: "mid-" + string(rune('a'+i)),
			Direction:  model.DirectionInbound,
			Text:       text,
			SentAt:     sentAt.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.AppendInbound(conv, msg))
		assert.Equal(t, conv.ID, msg.ConversationID)
	}

	updated, err := repo.GetByID(1, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.UnreadCount)
	assert.Equal(t, "size 42 please", updated.LastMessage)

	msgs, err := repo.ListMessages(conv.ID, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "is this in stock?", msgs[0].Text)

	exists, err := repo.MessageExists("mid-a")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.MarkRead(1, conv.ID))
	updated, err = repo.GetByID(1, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.UnreadCount)
}

func TestConversationRepository_ListMessages_KeepsNewest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConversationRepository(db)
	acct := testutil.TestChannelAccount(t, db, 1, model.ChannelMessenger, "page-1")
	conv := testutil.TestConversation(t, db, 1, acct.ID)

	base := time.Now().Truncate(time.Second)
	for i, text := range []string{"one", "two", "three"} {
		require.NoError(t, repo.AppendInbound(conv, &model.Message{
			ExternalID: "mid-" + text,
			Direction:  model.DirectionInbound,
			Text:       text,
			SentAt:     base.Add(time.Duration(i) * time.Minute),
		}))
	}

	msgs, err := repo.ListMessages(conv.ID, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "two", msgs[0].Text)
	assert.Equal(t, "three", msgs[1].Text)
}

func TestConversationRepository_AppendInbound_DuplicateMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConversationRepository(db)
	acct := testutil.TestChannelAccount(t, db, 1, model.ChannelInstagram, "ig-1")
	conv := testutil.TestConversation(t, db, 1, acct.ID)

	msg := func() *model.Message {
		return &model.Message{ExternalID: "mid-dup", Direction: model.DirectionInbound, Text: "hi", SentAt: time.Now()}
	}
	require.NoError(t, repo.AppendInbound(conv, msg()))
	assert.Error(t, repo.AppendInbound(conv, msg()))

	updated, err := repo.GetByID(1, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.UnreadCount)
}

func TestConversationRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConversationRepository(db)
	acct := testutil.TestChannelAccount(t, db, 1, model.ChannelInstagram, "ig-1")
	testutil.TestConversation(t, db, 1, acct.ID, testutil.WithUnread(3))
	testutil.TestConversation(t, db, 1, acct.ID)
	testutil.TestConversation(t, db, 1, acct.ID, testutil.WithConversationChannel(model.ChannelMessenger))
	testutil.TestConversation(t, db, 2, acct.ID)

	_, total, err := repo.List(1, "", false, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	unread, total, err := repo.List(1, "", true, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, 3, unread[0].UnreadCount)

	_, total, err = repo.List(1, string(model.ChannelMessenger), false, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	page, total, err := repo.List(1, "", false, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)
}

func TestConversationRepository_CountInRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewConversationRepository(db)
	acct := testutil.TestChannelAccount(t, db, 1, model.ChannelInstagram, "ig-1")
	testutil.TestConversation(t, db, 1, acct.ID)
	testutil.TestConversation(t, db, 1, acct.ID)

	count, err := repo.CountInRange(1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	future := time.Now().Add(time.Hour)
	count, err = repo.CountInRange(1, &future, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 10))
	assert.Equal(t, "hé", truncate("héllo", 2))
}
