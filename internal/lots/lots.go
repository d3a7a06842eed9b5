// Package lots manages quality control lots through the controller and
// chief phases. The chief-approval operations only ever touch status,
// phase, and the chief fields; the controller's form data is immutable
// once submitted.
package lots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agroverde/avotrace/internal/models"
)

var (
	// ErrNotFound is returned when no lot has the given ID.
	ErrNotFound = errors.New("lot not found")
	// ErrValidation marks user-facing validation failures.
	ErrValidation = errors.New("validation")
	// ErrPhase is returned when an operation is attempted in the wrong
	// phase or status.
	ErrPhase = errors.New("operation not allowed in current lot state")
)

// Store persists lots.
type Store interface {
	Get(ctx context.Context, id string) (*models.QualityControlLot, error)
	List(ctx context.Context, statusFilter string) ([]*models.QualityControlLot, error)
	Create(ctx context.Context, lot *models.QualityControlLot) error
	Update(ctx context.Context, lot *models.QualityControlLot) error
	// UpdateApproval writes only the chief-phase fields.
	UpdateApproval(ctx context.Context, lot *models.QualityControlLot) error
	Delete(ctx context.Context, id string) error
}

// Service applies the lot lifecycle rules on top of a Store.
type Service struct {
	store Store
}

// NewService wraps a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates and stores a new draft lot in the controller phase.
func (s *Service) Create(ctx context.Context, lot *models.QualityControlLot) (*models.QualityControlLot, error) {
	if lot.LotNumber == "" {
		return nil, fmt.Errorf("%w: le numéro de lot est obligatoire", ErrValidation)
	}
	if lot.FormData.Product == "" || lot.FormData.Variety == "" {
		return nil, fmt.Errorf("%w: produit et variété sont obligatoires", ErrValidation)
	}
	if len(lot.Calibres) == 0 {
		return nil, fmt.Errorf("%w: au moins un calibre est requis", ErrValidation)
	}

	lot.ID = uuid.NewString()
	lot.Status = models.LotStatusDraft
	lot.Phase = models.PhaseController
	lot.FormData.Results = computeResults(lot.FormData.Palettes)
	lot.CreatedAt = time.Now()
	lot.UpdatedAt = lot.CreatedAt
	if err := s.store.Create(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to create lot: %w", err)
	}
	return lot, nil
}

// Update saves controller edits. Only draft and completed lots are
// editable; once submitted the form is frozen for the chief.
func (s *Service) Update(ctx context.Context, lot *models.QualityControlLot) (*models.QualityControlLot, error) {
	existing, err := s.store.Get(ctx, lot.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status != models.LotStatusDraft && existing.Status != models.LotStatusCompleted {
		return nil, fmt.Errorf("%w: lot %s est en statut %s", ErrPhase, lot.ID, existing.Status)
	}
	lot.Phase = existing.Phase
	lot.CreatedAt = existing.CreatedAt
	lot.FormData.Results = computeResults(lot.FormData.Palettes)
	lot.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to update lot %s: %w", lot.ID, err)
	}
	return lot, nil
}

// Submit hands a lot to the chief phase.
func (s *Service) Submit(ctx context.Context, id string) (*models.QualityControlLot, error) {
	lot, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot.Status != models.LotStatusDraft && lot.Status != models.LotStatusCompleted {
		return nil, fmt.Errorf("%w: lot %s est en statut %s", ErrPhase, id, lot.Status)
	}
	lot.Status = models.LotStatusSubmitted
	lot.Phase = models.PhaseChief
	lot.SubmittedAt = time.Now()
	lot.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to submit lot %s: %w", id, err)
	}
	return lot, nil
}

// Approve records the chief's decision on a submitted lot. A rejection
// requires a comment so the controller knows what to fix.
func (s *Service) Approve(ctx context.Context, id, chiefEmail, comment string, approved bool) (*models.QualityControlLot, error) {
	lot, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot.Status != models.LotStatusSubmitted {
		return nil, fmt.Errorf("%w: lot %s n'est pas soumis", ErrPhase, id)
	}
	if !approved && comment == "" {
		return nil, fmt.Errorf("%w: un commentaire est obligatoire pour un rejet", ErrValidation)
	}

	if approved {
		lot.Status = models.LotStatusChiefApproved
	} else {
		lot.Status = models.LotStatusChiefRejected
	}
	lot.ChiefEmail = chiefEmail
	lot.ChiefComment = comment
	lot.ApprovalDate = time.Now()
	lot.UpdatedAt = time.Now()
	if err := s.store.UpdateApproval(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to record approval for lot %s: %w", id, err)
	}
	return lot, nil
}

// Get returns one lot.
func (s *Service) Get(ctx context.Context, id string) (*models.QualityControlLot, error) {
	return s.store.Get(ctx, id)
}

// List returns lots, optionally filtered by status.
func (s *Service) List(ctx context.Context, statusFilter string) ([]*models.QualityControlLot, error) {
	return s.store.List(ctx, statusFilter)
}

// Delete removes a lot. Explicit admin action only; nothing else ever
// hard-deletes a lot.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// computeResults derives the aggregate figures from the palette lines.
func computeResults(palettes []models.Palette) models.CalculatedResults {
	var res models.CalculatedResults
	for _, p := range palettes {
		res.TotalBoxes += p.BoxCount
		res.TotalGrossKg += p.GrossWeight
		res.TotalNetKg += p.NetWeight
	}
	if res.TotalBoxes > 0 {
		res.AverageBoxKg = res.TotalNetKg / float64(res.TotalBoxes)
	}
	if res.TotalGrossKg > 0 {
		res.ConformityRatio = res.TotalNetKg / res.TotalGrossKg
	}
	return res
}
