package models

import "time"

// Tracking record statuses. Drafts are wizard saves; submitted records
// are eligible for certificate generation.
const (
	TrackingStatusDraft     = "draft"
	TrackingStatusSubmitted = "submitted"
)

// HarvestRecord covers the field side of a lot.
type HarvestRecord struct {
	Date     time.Time `firestore:"date" json:"date"`
	Parcel   string    `firestore:"parcel" json:"parcel"`
	Producer string    `firestore:"producer" json:"producer"`
	Variety  string    `firestore:"variety" json:"variety"`
	GrossKg  float64   `firestore:"grossKg" json:"grossKg"`
}

// TransportRecord covers the trip from field to station.
type TransportRecord struct {
	Date        time.Time `firestore:"date" json:"date"`
	Carrier     string    `firestore:"carrier" json:"carrier"`
	VehicleID   string    `firestore:"vehicleId" json:"vehicleId"`
	Temperature float64   `firestore:"temperature" json:"temperature"`
}

// SortingRecord covers calibration and rejection at the station.
type SortingRecord struct {
	Date       time.Time `firestore:"date" json:"date"`
	Line       string    `firestore:"line" json:"line"`
	AcceptedKg float64   `firestore:"acceptedKg" json:"acceptedKg"`
	RejectedKg float64   `firestore:"rejectedKg" json:"rejectedKg"`
}

// PackagingRecord covers boxing and palettisation.
type PackagingRecord struct {
	Date      time.Time `firestore:"date" json:"date"`
	BoxType   string    `firestore:"boxType" json:"boxType"`
	BoxCount  int       `firestore:"boxCount" json:"boxCount"`
	PaletteNo string    `firestore:"paletteNo" json:"paletteNo"`
}

// StorageRecord covers cold-room storage.
type StorageRecord struct {
	Date        time.Time `firestore:"date" json:"date"`
	Room        string    `firestore:"room" json:"room"`
	Temperature float64   `firestore:"temperature" json:"temperature"`
	Humidity    float64   `firestore:"humidity" json:"humidity"`
}

// ExportRecord covers customs and shipping.
type ExportRecord struct {
	Date        time.Time `firestore:"date" json:"date"`
	Destination string    `firestore:"destination" json:"destination"`
	Container   string    `firestore:"container" json:"container"`
	SealNumber  string    `firestore:"sealNumber" json:"sealNumber"`
}

// DeliveryRecord covers final hand-over to the client.
type DeliveryRecord struct {
	Date     time.Time `firestore:"date" json:"date"`
	Client   string    `firestore:"client" json:"client"`
	Received bool      `firestore:"received" json:"received"`
	Remarks  string    `firestore:"remarks,omitempty" json:"remarks,omitempty"`
}

// AvocadoTracking is one lot's full harvest-to-delivery trace, filled in
// stage by stage through the entry wizard and rendered as a traceability
// certificate PDF once submitted.
type AvocadoTracking struct {
	ID        string          `firestore:"-" json:"id"`
	LotNumber string          `firestore:"lotNumber" json:"lotNumber"`
	Harvest   HarvestRecord   `firestore:"harvest" json:"harvest"`
	Transport TransportRecord `firestore:"transport" json:"transport"`
	Sorting   SortingRecord   `firestore:"sorting" json:"sorting"`
	Packaging PackagingRecord `firestore:"packaging" json:"packaging"`
	Storage   StorageRecord   `firestore:"storage" json:"storage"`
	Export    ExportRecord    `firestore:"export" json:"export"`
	Delivery  DeliveryRecord  `firestore:"delivery" json:"delivery"`
	Status    string          `firestore:"status" json:"status"`
	LastStep  int             `firestore:"lastStep,omitempty" json:"lastStep,omitempty"`
	CreatedAt time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time       `firestore:"updatedAt" json:"updatedAt"`
}
