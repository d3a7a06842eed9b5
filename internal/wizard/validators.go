package wizard

import (
	"errors"

	"github.com/agroverde/avotrace/internal/models"
)

// defaultValidators gate forward navigation per stage. Each checks only
// the fields its own form page collects.
var defaultValidators = map[Stage]Validator{
	StageHarvest: func(t *models.AvocadoTracking) error {
		switch {
		case t.Harvest.Date.IsZero():
			return errors.New("harvest date is required")
		case t.Harvest.Producer == "":
			return errors.New("producer is required")
		case t.Harvest.Variety == "":
			return errors.New("variety is required")
		case t.Harvest.GrossKg <= 0:
			return errors.New("gross weight must be positive")
		}
		return nil
	},
	StageTransport: func(t *models.AvocadoTracking) error {
		switch {
		case t.Transport.Date.IsZero():
			return errors.New("transport date is required")
		case t.Transport.Carrier == "":
			return errors.New("carrier is required")
		}
		return nil
	},
	StageSorting: func(t *models.AvocadoTracking) error {
		switch {
		case t.Sorting.Date.IsZero():
			return errors.New("sorting date is required")
		case t.Sorting.AcceptedKg < 0 || t.Sorting.RejectedKg < 0:
			return errors.New("sorted weights cannot be negative")
		}
		return nil
	},
	StagePackaging: func(t *models.AvocadoTracking) error {
		switch {
		case t.Packaging.Date.IsZero():
			return errors.New("packaging date is required")
		case t.Packaging.BoxCount <= 0:
			return errors.New("box count must be positive")
		}
		return nil
	},
	StageStorage: func(t *models.AvocadoTracking) error {
		if t.Storage.Date.IsZero() {
			return errors.New("storage date is required")
		}
		return nil
	},
	StageExport: func(t *models.AvocadoTracking) error {
		switch {
		case t.Export.Date.IsZero():
			return errors.New("export date is required")
		case t.Export.Destination == "":
			return errors.New("destination is required")
		}
		return nil
	},
	StageDelivery: func(t *models.AvocadoTracking) error {
		switch {
		case t.Delivery.Date.IsZero():
			return errors.New("delivery date is required")
		case t.Delivery.Client == "":
			return errors.New("client is required")
		}
		return nil
	},
}
