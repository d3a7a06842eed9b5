package models

import "time"

// InventoryItem is the current stock level for one caliber/packaging.
type InventoryItem struct {
	ID        string    `firestore:"-" json:"id"`
	Caliber   string    `firestore:"caliber" json:"caliber"`
	BoxType   string    `firestore:"boxType" json:"boxType"`
	Quantity  int       `firestore:"quantity" json:"quantity"`
	Unit      string    `firestore:"unit" json:"unit"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// ConsumptionEntry is one day's recorded consumption against stock.
type ConsumptionEntry struct {
	ID       string    `firestore:"-" json:"id"`
	ItemID   string    `firestore:"itemId" json:"itemId"`
	Quantity int       `firestore:"quantity" json:"quantity"`
	Date     time.Time `firestore:"date" json:"date"`
	Note     string    `firestore:"note,omitempty" json:"note,omitempty"`
}
