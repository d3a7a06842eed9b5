package wizard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroverde/avotrace/internal/models"
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

func TestNextWalksAllStages(t *testing.T) {
	m := wizard.New()
	record := fullRecord()

	want := []wizard.Stage{
		wizard.StageTransport, wizard.StageSorting, wizard.StagePackaging,
		wizard.StageStorage, wizard.StageExport, wizard.StageDelivery,
	}
	for _, expected := range want {
		require.NoError(t, m.Next(record))
		assert.Equal(t, expected, m.Stage())
	}
	require.NoError(t, m.Submit(record))
}

func TestNextGatedByValidator(t *testing.T) {
	m := wizard.New()
	record := fullRecord()
	record.Harvest.Producer = ""

	err := m.Next(record)
	require.Error(t, err)
	assert.ErrorIs(t, err, wizard.ErrValidation)
	assert.Equal(t, wizard.StageHarvest, m.Stage(), "failed validation must not move the stage")
}

func TestPrevIsUnconditional(t *testing.T) {
	m, err := wizard.Resume(wizard.StageSorting)
	require.NoError(t, err)

	require.NoError(t, m.Prev())
	assert.Equal(t, wizard.StageTransport, m.Stage())
	require.NoError(t, m.Prev())
	assert.Equal(t, wizard.StageHarvest, m.Stage())

	// No further back from the first stage.
	err = m.Prev()
	assert.ErrorIs(t, err, wizard.ErrInvalidTransition)
}

func TestJumpIsUnconditional(t *testing.T) {
	m := wizard.New()
	require.NoError(t, m.Jump(wizard.StageExport))
	assert.Equal(t, wizard.StageExport, m.Stage())

	assert.ErrorIs(t, m.Jump(wizard.Stage(0)), wizard.ErrInvalidTransition)
	assert.ErrorIs(t, m.Jump(wizard.Stage(8)), wizard.ErrInvalidTransition)
}

func TestSubmitOnlyFromDelivery(t *testing.T) {
	m := wizard.New()
	err := m.Submit(fullRecord())
	assert.ErrorIs(t, err, wizard.ErrInvalidTransition)

	m, err = wizard.Resume(wizard.StageDelivery)
	require.NoError(t, err)

	incomplete := fullRecord()
	incomplete.Delivery.Client = ""
	assert.ErrorIs(t, m.Submit(incomplete), wizard.ErrValidation)

	require.NoError(t, m.Submit(fullRecord()))
}

func TestResumeRejectsBogusStage(t *testing.T) {
	_, err := wizard.Resume(wizard.Stage(42))
	assert.ErrorIs(t, err, wizard.ErrInvalidTransition)
}
