package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/testutil"
)

func TestOrderRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewOrderRepository(db)
	testutil.TestOrder(t, db, 1)
	testutil.TestOrder(t, db, 1, testutil.WithPaymentStatus(model.PaymentStatusPaid))
	testutil.TestOrder(t, db, 1, testutil.WithOrderStatus(model.OrderStatusShipped), testutil.WithPaymentStatus(model.PaymentStatusPaid))
	testutil.TestOrder(t, db, 2)

	_, total, err := repo.List(1, "", "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, total, err = repo.List(1, "", string(model.PaymentStatusPaid), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	orders, total, err := repo.List(1, string(model.OrderStatusShipped), string(model.PaymentStatusPaid), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, model.OrderStatusShipped, orders[0].Status)
}

func TestOrderRepository_Revenue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewOrderRepository(db)
	delivered := testutil.WithOrderStatus(model.OrderStatusDelivered)
	paid := testutil.WithPaymentStatus(model.PaymentStatusPaid)

	testutil.TestOrder(t, db, 1, delivered, paid, testutil.WithAmount(100))
	testutil.TestOrder(t, db, 1, delivered, paid, testutil.WithAmount(50.5))
	testutil.TestOrder(t, db, 1, delivered, testutil.WithAmount(999))
	testutil.TestOrder(t, db, 1, paid, testutil.WithAmount(999))
	testutil.TestOrder(t, db, 2, delivered, paid, testutil.WithAmount(999))

	total, count, err := repo.Revenue(1, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 150.5, total, 0.001)
	assert.Equal(t, int64(2), count)
}

func TestOrderRepository_Revenue_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	total, count, err := NewOrderRepository(db).Revenue(1, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, count)
}
