package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroverde/avotrace/internal/models"
	"github.com/agroverde/avotrace/internal/orders"
)

func newOrder() *models.AvocadoOrder {
	return &models.AvocadoOrder{
		ClientName: "Import BV",
		Items: []models.OrderItem{
			{Caliber: "12", Quantity: 200, Type: "bio", ProcessingTime: "48h"},
			{Caliber: "14", Quantity: 100, Type: "conventionnel", ProcessingTime: "24h"},
		},
		RequestedDelivery: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestItemKeyCollision(t *testing.T) {
	a := models.OrderItem{Caliber: "12", Quantity: 200, Type: "bio", ProcessingTime: "48h"}
	b := models.OrderItem{Caliber: "12", Quantity: 999, Type: "bio", ProcessingTime: "48h"}
	c := models.OrderItem{Caliber: "14", Quantity: 200, Type: "bio", ProcessingTime: "48h"}

	// Quantity is not part of the identity: identical triples collide.
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, "bio-12-48h", a.Key())
}

func TestCreateValidates(t *testing.T) {
	svc := orders.NewService(orders.NewMemoryStore())
	ctx := context.Background()

	o := newOrder()
	o.ClientName = ""
	_, err := svc.Create(ctx, o)
	assert.ErrorIs(t, err, orders.ErrValidation)

	o = newOrder()
	o.Items = nil
	_, err = svc.Create(ctx, o)
	assert.ErrorIs(t, err, orders.ErrValidation)

	o = newOrder()
	o.Items[0].Quantity = 0
	_, err = svc.Create(ctx, o)
	assert.ErrorIs(t, err, orders.ErrValidation)

	created, err := svc.Create(ctx, newOrder())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.OrderStatusPending, created.Status)
}

func TestStatusTransitions(t *testing.T) {
	svc := orders.NewService(orders.NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, newOrder())
	require.NoError(t, err)

	// pending -> completed skips processing and is rejected.
	_, err = svc.SetStatus(ctx, created.ID, models.OrderStatusCompleted)
	assert.ErrorIs(t, err, orders.ErrInvalidTransition)

	o, err := svc.SetStatus(ctx, created.ID, models.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, o.Status)

	o, err = svc.SetStatus(ctx, created.ID, models.OrderStatusDelayed)
	require.NoError(t, err)

	o, err = svc.SetStatus(ctx, created.ID, models.OrderStatusCompleted)
	require.NoError(t, err)
	assert.False(t, o.ActualDelivery.IsZero(), "completion stamps the delivery date")

	// Completed is terminal.
	_, err = svc.SetStatus(ctx, created.ID, models.OrderStatusProcessing)
	assert.ErrorIs(t, err, orders.ErrInvalidTransition)
}

func TestCheckItem(t *testing.T) {
	svc := orders.NewService(orders.NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, newOrder())
	require.NoError(t, err)

	key := created.Items[0].Key()
	o, err := svc.CheckItem(ctx, created.ID, key, true)
	require.NoError(t, err)
	assert.True(t, o.CheckedItems[key])

	o, err = svc.CheckItem(ctx, created.ID, key, false)
	require.NoError(t, err)
	assert.False(t, o.CheckedItems[key])

	_, err = svc.CheckItem(ctx, created.ID, "bogus-key", true)
	assert.ErrorIs(t, err, orders.ErrValidation)

	_, err = svc.CheckItem(ctx, "missing-order", key, true)
	assert.ErrorIs(t, err, orders.ErrNotFound)
}
