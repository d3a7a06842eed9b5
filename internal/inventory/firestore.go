package inventory

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agroverde/avotrace/internal/gcp"
	"github.com/agroverde/avotrace/internal/models"
)

// FirestoreStore persists stock in the inventory collection and the
// consumption log in the consumption collection.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an existing Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) items() *firestore.CollectionRef {
	return s.client.Collection(gcp.CollectionInventory)
}

func (s *FirestoreStore) consumption() *firestore.CollectionRef {
	return s.client.Collection(gcp.CollectionConsumption)
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (*models.InventoryItem, error) {
	snap, err := s.items().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item %s: %w", id, err)
	}
	var item models.InventoryItem
	if err := snap.DataTo(&item); err != nil {
		return nil, fmt.Errorf("failed to decode inventory item %s: %w", id, err)
	}
	item.ID = snap.Ref.ID
	return &item, nil
}

func (s *FirestoreStore) List(ctx context.Context) ([]*models.InventoryItem, error) {
	snaps, err := s.items().OrderBy("caliber", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	out := make([]*models.InventoryItem, 0, len(snaps))
	for _, snap := range snaps {
		var item models.InventoryItem
		if err := snap.DataTo(&item); err != nil {
			return nil, fmt.Errorf("failed to decode inventory item %s: %w", snap.Ref.ID, err)
		}
		item.ID = snap.Ref.ID
		out = append(out, &item)
	}
	return out, nil
}

func (s *FirestoreStore) Create(ctx context.Context, item *models.InventoryItem) error {
	if _, err := s.items().Doc(item.ID).Create(ctx, item); err != nil {
		return fmt.Errorf("failed to create inventory item %s: %w", item.ID, err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, item *models.InventoryItem) error {
	if _, err := s.items().Doc(item.ID).Set(ctx, item); err != nil {
		return fmt.Errorf("failed to update inventory item %s: %w", item.ID, err)
	}
	return nil
}

func (s *FirestoreStore) AppendConsumption(ctx context.Context, entry *models.ConsumptionEntry) error {
	if _, err := s.consumption().Doc(entry.ID).Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record consumption %s: %w", entry.ID, err)
	}
	return nil
}

func (s *FirestoreStore) ListConsumption(ctx context.Context, itemID string) ([]*models.ConsumptionEntry, error) {
	snaps, err := s.consumption().
		Where("itemId", "==", itemID).
		OrderBy("date", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list consumption for item %s: %w", itemID, err)
	}
	out := make([]*models.ConsumptionEntry, 0, len(snaps))
	for _, snap := range snaps {
		var entry models.ConsumptionEntry
		if err := snap.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode consumption %s: %w", snap.Ref.ID, err)
		}
		entry.ID = snap.Ref.ID
		out = append(out, &entry)
	}
	return out, nil
}
