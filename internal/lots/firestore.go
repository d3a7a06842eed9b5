package lots

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agroverde/avotrace/internal/gcp"
	"github.com/agroverde/avotrace/internal/models"
)

// FirestoreStore persists lots in the quality_control_lots collection.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an existing Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) col() *firestore.CollectionRef {
	return s.client.Collection(gcp.CollectionLots)
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (*models.QualityControlLot, error) {
	snap, err := s.col().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lot %s: %w", id, err)
	}
	var lot models.QualityControlLot
	if err := snap.DataTo(&lot); err != nil {
		return nil, fmt.Errorf("failed to decode lot %s: %w", id, err)
	}
	lot.ID = snap.Ref.ID
	return &lot, nil
}

func (s *FirestoreStore) List(ctx context.Context, statusFilter string) ([]*models.QualityControlLot, error) {
	q := s.col().Query
	if statusFilter != "" {
		q = q.Where("status", "==", statusFilter)
	}
	snaps, err := q.OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}
	out := make([]*models.QualityControlLot, 0, len(snaps))
	for _, snap := range snaps {
		var lot models.QualityControlLot
		if err := snap.DataTo(&lot); err != nil {
			return nil, fmt.Errorf("failed to decode lot %s: %w", snap.Ref.ID, err)
		}
		lot.ID = snap.Ref.ID
		out = append(out, &lot)
	}
	return out, nil
}

func (s *FirestoreStore) Create(ctx context.Context, lot *models.QualityControlLot) error {
	if _, err := s.col().Doc(lot.ID).Create(ctx, lot); err != nil {
		return fmt.Errorf("failed to create lot %s: %w", lot.ID, err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, lot *models.QualityControlLot) error {
	if _, err := s.col().Doc(lot.ID).Set(ctx, lot); err != nil {
		return fmt.Errorf("failed to update lot %s: %w", lot.ID, err)
	}
	return nil
}

// UpdateApproval writes only the chief-decision fields so a concurrent
// controller edit cannot be clobbered by the approval screen.
func (s *FirestoreStore) UpdateApproval(ctx context.Context, lot *models.QualityControlLot) error {
	_, err := s.col().Doc(lot.ID).Update(ctx, []firestore.Update{
		{Path: "status", Value: lot.Status},
		{Path: "phase", Value: lot.Phase},
		{Path: "chiefEmail", Value: lot.ChiefEmail},
		{Path: "chiefComment", Value: lot.ChiefComment},
		{Path: "approvalDate", Value: firestore.ServerTimestamp},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to record approval for lot %s: %w", lot.ID, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	if _, err := s.col().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete lot %s: %w", id, err)
	}
	return nil
}
