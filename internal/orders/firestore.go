package orders

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agroverde/avotrace/internal/gcp"
	"github.com/agroverde/avotrace/internal/models"
)

// FirestoreStore persists orders in the avocado_orders collection.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an existing Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) col() *firestore.CollectionRef {
	return s.client.Collection(gcp.CollectionOrders)
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (*models.AvocadoOrder, error) {
	snap, err := s.col().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	var o models.AvocadoOrder
	if err := snap.DataTo(&o); err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", id, err)
	}
	o.ID = snap.Ref.ID
	return &o, nil
}

func (s *FirestoreStore) List(ctx context.Context) ([]*models.AvocadoOrder, error) {
	snaps, err := s.col().OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	out := make([]*models.AvocadoOrder, 0, len(snaps))
	for _, snap := range snaps {
		var o models.AvocadoOrder
		if err := snap.DataTo(&o); err != nil {
			return nil, fmt.Errorf("failed to decode order %s: %w", snap.Ref.ID, err)
		}
		o.ID = snap.Ref.ID
		out = append(out, &o)
	}
	return out, nil
}

func (s *FirestoreStore) Create(ctx context.Context, o *models.AvocadoOrder) error {
	if _, err := s.col().Doc(o.ID).Create(ctx, o); err != nil {
		return fmt.Errorf("failed to create order %s: %w", o.ID, err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, o *models.AvocadoOrder) error {
	if _, err := s.col().Doc(o.ID).Set(ctx, o); err != nil {
		return fmt.Errorf("failed to update order %s: %w", o.ID, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	if _, err := s.col().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return nil
}
