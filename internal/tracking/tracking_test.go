package tracking_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroverde/avotrace/internal/models"
	"github.com/agroverde/avotrace/internal/tracking"
	"github.com/agroverde/avotrace/internal/wizard"
)

func fullRecord() *models.AvocadoTracking {
	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	return &models.AvocadoTracking{
		LotNumber: "AV-2026-001",
		Harvest:   models.HarvestRecord{Date: date, Parcel: "P-3", Producer: "Coop Souss", Variety: "Hass", GrossKg: 1500},
		Transport: models.TransportRecord{Date: date, Carrier: "TransFruit", VehicleID: "TF-12", Temperature: 6},
		Sorting:   models.SortingRecord{Date: date, Line: "L1", AcceptedKg: 1400, RejectedKg: 100},
		Packaging: models.PackagingRecord{Date: date, BoxType: "4kg", BoxCount: 350, PaletteNo: "PAL-9"},
		Storage:   models.StorageRecord{Date: date, Room: "F2", Temperature: 5.5, Humidity: 90},
		Export:    models.ExportRecord{Date: date, Destination: "Rotterdam", Container: "MSKU-1", SealNumber: "S-77"},
		Delivery:  models.DeliveryRecord{Date: date, Client: "Import BV", Received: true},
	}
}

func TestSaveDraftSkipsValidation(t *testing.T) {
	svc := tracking.NewService(tracking.NewMemoryStore())

	// A nearly empty record saves fine as a draft.
	draft := &models.AvocadoTracking{LotNumber: "AV-2026-009"}
	saved, err := svc.SaveDraft(context.Background(), draft, wizard.StageSorting)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, models.TrackingStatusDraft, saved.Status)
	assert.Equal(t, int(wizard.StageSorting), saved.LastStep)
}

func TestSubmitRunsAllStageGates(t *testing.T) {
	svc := tracking.NewService(tracking.NewMemoryStore())
	ctx := context.Background()

	incomplete := fullRecord()
	incomplete.Export.Destination = ""
	_, err := svc.Submit(ctx, incomplete)
	assert.ErrorIs(t, err, tracking.ErrValidation)

	submitted, err := svc.Submit(ctx, fullRecord())
	require.NoError(t, err)
	assert.Equal(t, models.TrackingStatusSubmitted, submitted.Status)
}

func TestCertificateRequiresSubmitted(t *testing.T) {
	svc := tracking.NewService(tracking.NewMemoryStore())
	ctx := context.Background()

	draft, err := svc.SaveDraft(ctx, &models.AvocadoTracking{LotNumber: "AV-2026-009"}, wizard.StageHarvest)
	require.NoError(t, err)
	_, err = svc.Certificate(ctx, draft.ID)
	assert.ErrorIs(t, err, tracking.ErrValidation)

	submitted, err := svc.Submit(ctx, fullRecord())
	require.NoError(t, err)

	pdf, err := svc.Certificate(ctx, submitted.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
