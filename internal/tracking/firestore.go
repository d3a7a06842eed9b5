package tracking

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agroverde/avotrace/internal/gcp"
	"github.com/agroverde/avotrace/internal/models"
)

// FirestoreStore persists tracking records in the avocado_tracking
// collection.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an existing Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) col() *firestore.CollectionRef {
	return s.client.Collection(gcp.CollectionTracking)
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (*models.AvocadoTracking, error) {
	snap, err := s.col().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking record %s: %w", id, err)
	}
	var t models.AvocadoTracking
	if err := snap.DataTo(&t); err != nil {
		return nil, fmt.Errorf("failed to decode tracking record %s: %w", id, err)
	}
	t.ID = snap.Ref.ID
	return &t, nil
}

func (s *FirestoreStore) List(ctx context.Context) ([]*models.AvocadoTracking, error) {
	snaps, err := s.col().OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tracking records: %w", err)
	}
	out := make([]*models.AvocadoTracking, 0, len(snaps))
	for _, snap := range snaps {
		var t models.AvocadoTracking
		if err := snap.DataTo(&t); err != nil {
			return nil, fmt.Errorf("failed to decode tracking record %s: %w", snap.Ref.ID, err)
		}
		t.ID = snap.Ref.ID
		out = append(out, &t)
	}
	return out, nil
}

func (s *FirestoreStore) Set(ctx context.Context, t *models.AvocadoTracking) error {
	if _, err := s.col().Doc(t.ID).Set(ctx, t); err != nil {
		return fmt.Errorf("failed to store tracking record %s: %w", t.ID, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	if _, err := s.col().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete tracking record %s: %w", id, err)
	}
	return nil
}
