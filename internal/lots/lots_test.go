package lots_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroverde/avotrace/internal/lots"
	"github.com/agroverde/avotrace/internal/models"
)

func newLot() *models.QualityControlLot {
	return &models.QualityControlLot{
		LotNumber: "AV-2026-001",
		Calibres:  []string{"12", "14"},
		FormData: models.LotFormData{
			Product:  "Avocat",
			Variety:  "Hass",
			Campaign: "2026",
			Palettes: []models.Palette{
				{Number: 1, BoxCount: 100, GrossWeight: 420, NetWeight: 400},
				{Number: 2, BoxCount: 60, GrossWeight: 252, NetWeight: 240},
			},
		},
	}
}

func TestCreateComputesResults(t *testing.T) {
	svc := lots.NewService(lots.NewMemoryStore())
	created, err := svc.Create(context.Background(), newLot())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.LotStatusDraft, created.Status)
	assert.Equal(t, models.PhaseController, created.Phase)
	assert.Equal(t, 160, created.FormData.Results.TotalBoxes)
	assert.InDelta(t, 640.0, created.FormData.Results.TotalNetKg, 0.01)
	assert.InDelta(t, 4.0, created.FormData.Results.AverageBoxKg, 0.01)
}

func TestCreateValidates(t *testing.T) {
	svc := lots.NewService(lots.NewMemoryStore())
	ctx := context.Background()

	lot := newLot()
	lot.LotNumber = ""
	_, err := svc.Create(ctx, lot)
	assert.ErrorIs(t, err, lots.ErrValidation)

	lot = newLot()
	lot.Calibres = nil
	_, err = svc.Create(ctx, lot)
	assert.ErrorIs(t, err, lots.ErrValidation)
}

func TestSubmitAndApprove(t *testing.T) {
	svc := lots.NewService(lots.NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, newLot())
	require.NoError(t, err)

	// A draft cannot be approved before submission.
	_, err = svc.Approve(ctx, created.ID, "chief@agroverde.test", "ok", true)
	assert.ErrorIs(t, err, lots.ErrPhase)

	submitted, err := svc.Submit(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LotStatusSubmitted, submitted.Status)
	assert.Equal(t, models.PhaseChief, submitted.Phase)

	// Submitted lots are frozen for the controller.
	_, err = svc.Update(ctx, submitted)
	assert.ErrorIs(t, err, lots.ErrPhase)

	approved, err := svc.Approve(ctx, created.ID, "chief@agroverde.test", "conforme", true)
	require.NoError(t, err)
	assert.Equal(t, models.LotStatusChiefApproved, approved.Status)
	assert.Equal(t, "chief@agroverde.test", approved.ChiefEmail)
	assert.False(t, approved.ApprovalDate.IsZero())
}

func TestRejectRequiresComment(t *testing.T) {
	svc := lots.NewService(lots.NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, newLot())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, "chief@agroverde.test", "", false)
	assert.ErrorIs(t, err, lots.ErrValidation)

	rejected, err := svc.Approve(ctx, created.ID, "chief@agroverde.test", "étiquetage non conforme", false)
	require.NoError(t, err)
	assert.Equal(t, models.LotStatusChiefRejected, rejected.Status)
}

func TestListFiltersByStatus(t *testing.T) {
	svc := lots.NewService(lots.NewMemoryStore())
	ctx := context.Background()

	a, err := svc.Create(ctx, newLot())
	require.NoError(t, err)
	b := newLot()
	b.LotNumber = "AV-2026-002"
	_, err = svc.Create(ctx, b)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, a.ID)
	require.NoError(t, err)

	drafts, err := svc.List(ctx, models.LotStatusDraft)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "AV-2026-002", drafts[0].LotNumber)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
