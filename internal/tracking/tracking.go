// Package tracking manages harvest-to-delivery traceability records.
// Drafts come from the entry wizard and save without validation; a
// submit re-runs every stage gate server side before the record becomes
// eligible for certificate generation.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agroverde/avotrace/internal/models"
	"github.com/agroverde/avotrace/internal/report"
	"github.com/agroverde/avotrace/internal/wizard"
)

var (
	// ErrNotFound is returned when no tracking record has the given ID.
	ErrNotFound = errors.New("tracking record not found")
	// ErrValidation marks user-facing validation failures.
	ErrValidation = errors.New("validation")
)

// Store persists tracking records.
type Store interface {
	Get(ctx context.Context, id string) (*models.AvocadoTracking, error)
	List(ctx context.Context) ([]*models.AvocadoTracking, error)
	Set(ctx context.Context, t *models.AvocadoTracking) error
	Delete(ctx context.Context, id string) error
}

// Service applies the tracking lifecycle on top of a Store.
type Service struct {
	store Store
}

// NewService wraps a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// SaveDraft persists in-progress wizard state at any step without
// validation. A missing ID creates a new draft.
func (s *Service) SaveDraft(ctx context.Context, t *models.AvocadoTracking, lastStep wizard.Stage) (*models.AvocadoTracking, error) {
	if t.LotNumber == "" {
		return nil, fmt.Errorf("%w: le numéro de lot est obligatoire", ErrValidation)
	}
	if !lastStep.Valid() {
		lastStep = wizard.StageHarvest
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
		t.CreatedAt = time.Now()
	}
	t.Status = models.TrackingStatusDraft
	t.LastStep = int(lastStep)
	t.UpdatedAt = time.Now()
	if err := s.store.Set(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save tracking draft: %w", err)
	}
	return t, nil
}

// Submit walks the whole wizard over the record, so every stage's gate
// must pass, then stores it as submitted.
func (s *Service) Submit(ctx context.Context, t *models.AvocadoTracking) (*models.AvocadoTracking, error) {
	if t.LotNumber == "" {
		return nil, fmt.Errorf("%w: le numéro de lot est obligatoire", ErrValidation)
	}

	m := wizard.New()
	for m.Stage() != wizard.StageDelivery {
		if err := m.Next(t); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if err := m.Submit(t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
		t.CreatedAt = time.Now()
	}
	t.Status = models.TrackingStatusSubmitted
	t.LastStep = int(wizard.StageDelivery)
	t.UpdatedAt = time.Now()
	if err := s.store.Set(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to store tracking record: %w", err)
	}
	return t, nil
}

// Certificate renders the traceability certificate for a submitted
// record and returns the optimized PDF bytes.
func (s *Service) Certificate(ctx context.Context, id string) ([]byte, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TrackingStatusSubmitted {
		return nil, fmt.Errorf("%w: le certificat requiert un dossier soumis", ErrValidation)
	}
	raw, err := report.Certificate(t)
	if err != nil {
		return nil, fmt.Errorf("failed to generate certificate: %w", err)
	}
	optimized, _, err := report.Finish(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to finish certificate: %w", err)
	}
	return optimized, nil
}

// Get returns one tracking record.
func (s *Service) Get(ctx context.Context, id string) (*models.AvocadoTracking, error) {
	return s.store.Get(ctx, id)
}

// List returns all tracking records.
func (s *Service) List(ctx context.Context) ([]*models.AvocadoTracking, error) {
	return s.store.List(ctx)
}

// Delete removes a tracking record.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
