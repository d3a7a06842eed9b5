package rapport

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agroverde/avotrace/internal/gcp"
	"github.com/agroverde/avotrace/internal/models"
)

// FirestoreStore persists rapports in the quality_reports collection,
// keyed by lot document ID.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an existing Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) doc(lotID string) *firestore.DocumentRef {
	return s.client.Collection(gcp.CollectionRapports).Doc(lotID)
}

func (s *FirestoreStore) Get(ctx context.Context, lotID string) (*models.QualityRapport, error) {
	snap, err := s.doc(lotID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rapport %s: %w", lotID, err)
	}
	var r models.QualityRapport
	if err := snap.DataTo(&r); err != nil {
		return nil, fmt.Errorf("failed to decode rapport %s: %w", lotID, err)
	}
	r.ID = snap.Ref.ID
	return &r, nil
}

func (s *FirestoreStore) List(ctx context.Context) ([]*models.QualityRapport, error) {
	snaps, err := s.client.Collection(gcp.CollectionRapports).
		OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list rapports: %w", err)
	}
	rapports := make([]*models.QualityRapport, 0, len(snaps))
	for _, snap := range snaps {
		var r models.QualityRapport
		if err := snap.DataTo(&r); err != nil {
			return nil, fmt.Errorf("failed to decode rapport %s: %w", snap.Ref.ID, err)
		}
		r.ID = snap.Ref.ID
		rapports = append(rapports, &r)
	}
	return rapports, nil
}

// SaveCalibre merge-writes only the saved calibre's map entries plus the
// rapport identity, so concurrent saves of different calibres never
// clobber each other.
func (s *FirestoreStore) SaveCalibre(ctx context.Context, r *models.QualityRapport, calibre string) error {
	_, err := s.doc(r.LotID).Set(ctx, map[string]interface{}{
		"lotId":     r.LotID,
		"lotNumber": r.LotNumber,
		"calibres":  r.Calibres,
		"status":    r.Status,
		"createdAt": r.CreatedAt,
		"updatedAt": firestore.ServerTimestamp,
		"images": map[string]interface{}{
			calibre: r.Images[calibre],
		},
		"testResults": map[string]interface{}{
			calibre: r.TestResults[calibre],
		},
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to save calibre %s for lot %s: %w", calibre, r.LotID, err)
	}
	return nil
}

func (s *FirestoreStore) SetCompleted(ctx context.Context, lotID string, score float64) error {
	_, err := s.doc(lotID).Update(ctx, []firestore.Update{
		{Path: "status", Value: models.RapportStatusCompleted},
		{Path: "qualityScore", Value: score},
		{Path: "completedAt", Value: firestore.ServerTimestamp},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to mark rapport %s completed: %w", lotID, err)
	}
	return nil
}

func (s *FirestoreStore) AttachPDFs(ctx context.Context, lotID, pdfURL, visualPDFURL string) error {
	_, err := s.doc(lotID).Update(ctx, []firestore.Update{
		{Path: "pdfUrl", Value: pdfURL},
		{Path: "visualPdfUrl", Value: visualPDFURL},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to attach PDFs to rapport %s: %w", lotID, err)
	}
	return nil
}

// AppendImage relies on ArrayUnion for its idempotency: a redelivered
// storage event unions the same URL into the same list.
func (s *FirestoreStore) AppendImage(ctx context.Context, lotID, calibre, url string) error {
	_, err := s.doc(lotID).Update(ctx, []firestore.Update{
		{Path: "images." + calibre, Value: firestore.ArrayUnion(url)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to append image to rapport %s calibre %s: %w", lotID, calibre, err)
	}
	return nil
}

func (s *FirestoreStore) SetStatus(ctx context.Context, lotID, newStatus, errDetails string) error {
	updates := []firestore.Update{
		{Path: "status", Value: newStatus},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if errDetails != "" {
		updates = append(updates, firestore.Update{Path: "errorDetails", Value: errDetails})
	}
	_, err := s.doc(lotID).Update(ctx, updates)
	if err != nil {
		return fmt.Errorf("failed to update rapport %s status: %w", lotID, err)
	}
	return nil
}
