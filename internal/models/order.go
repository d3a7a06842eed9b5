package models

import (
	"fmt"
	"time"
)

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusDelayed    = "delayed"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem is one line of an avocado order.
type OrderItem struct {
	Caliber        string `firestore:"caliber" json:"caliber"`
	Quantity       int    `firestore:"quantity" json:"quantity"`
	Type           string `firestore:"type" json:"type"`
	ProcessingTime string `firestore:"processingTime" json:"processingTime"`
}

// Key derives the identity used for per-item checked-state tracking.
// Two items with the same (type, caliber, processingTime) collide onto
// the same key; quantity is deliberately not part of the identity.
func (i OrderItem) Key() string {
	return fmt.Sprintf("%s-%s-%s", i.Type, i.Caliber, i.ProcessingTime)
}

// AvocadoOrder is a client order with free-form per-item check tracking.
type AvocadoOrder struct {
	ID                string          `firestore:"-" json:"id"`
	ClientName        string          `firestore:"clientName" json:"clientName"`
	Items             []OrderItem     `firestore:"items" json:"items"`
	Status            string          `firestore:"status" json:"status"`
	RequestedDelivery time.Time       `firestore:"requestedDelivery" json:"requestedDelivery"`
	ActualDelivery    time.Time       `firestore:"actualDelivery,omitempty" json:"actualDelivery,omitempty"`
	CheckedItems      map[string]bool `firestore:"checkedItems,omitempty" json:"checkedItems,omitempty"`
	CreatedAt         time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time       `firestore:"updatedAt" json:"updatedAt"`
}
