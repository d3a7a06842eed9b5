package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroverde/avotrace/internal/inventory"
	"github.com/agroverde/avotrace/internal/models"
)

func seedItem(t *testing.T, svc *inventory.Service, qty int) *models.InventoryItem {
	t.Helper()
	item, err := svc.Create(context.Background(), &models.InventoryItem{
		Caliber: "14", BoxType: "4kg", Quantity: qty, Unit: "caisse",
	})
	require.NoError(t, err)
	return item
}

func TestCreateAndAdjust(t *testing.T) {
	svc := inventory.NewService(inventory.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.InventoryItem{BoxType: "4kg", Quantity: 10})
	assert.ErrorIs(t, err, inventory.ErrValidation)
	_, err = svc.Create(ctx, &models.InventoryItem{Caliber: "14", BoxType: "4kg", Quantity: -1})
	assert.ErrorIs(t, err, inventory.ErrValidation)

	item := seedItem(t, svc, 100)
	adjusted, err := svc.Adjust(ctx, item.ID, 250)
	require.NoError(t, err)
	assert.Equal(t, 250, adjusted.Quantity)

	_, err = svc.Adjust(ctx, item.ID, -5)
	assert.ErrorIs(t, err, inventory.ErrValidation)
	_, err = svc.Adjust(ctx, "missing", 10)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestConsumeDecrementsAndLogs(t *testing.T) {
	svc := inventory.NewService(inventory.NewMemoryStore())
	ctx := context.Background()
	item := seedItem(t, svc, 50)

	after, err := svc.Consume(ctx, item.ID, 30, "expédition Rotterdam")
	require.NoError(t, err)
	assert.Equal(t, 20, after.Quantity)

	// Consuming more than is in stock is refused and leaves the log alone.
	_, err = svc.Consume(ctx, item.ID, 25, "")
	assert.ErrorIs(t, err, inventory.ErrValidation)
	_, err = svc.Consume(ctx, item.ID, 0, "")
	assert.ErrorIs(t, err, inventory.ErrValidation)

	entries, err := svc.Consumption(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 30, entries[0].Quantity)
	assert.Equal(t, "expédition Rotterdam", entries[0].Note)
}
