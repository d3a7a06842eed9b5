// Package inventory tracks packaging stock levels and daily consumption.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agroverde/avotrace/internal/models"
)

var (
	// ErrNotFound is returned when no stock item has the given ID.
	ErrNotFound = errors.New("inventory item not found")
	// ErrValidation marks user-facing validation failures.
	ErrValidation = errors.New("validation")
)

// Store persists stock items and their consumption log.
type Store interface {
	Get(ctx context.Context, id string) (*models.InventoryItem, error)
	List(ctx context.Context) ([]*models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Update(ctx context.Context, item *models.InventoryItem) error
	AppendConsumption(ctx context.Context, entry *models.ConsumptionEntry) error
	ListConsumption(ctx context.Context, itemID string) ([]*models.ConsumptionEntry, error)
}

// Service applies stock rules on top of a Store.
type Service struct {
	store Store
}

// NewService wraps a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a new stock line.
func (s *Service) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if item.Caliber == "" || item.BoxType == "" {
		return nil, fmt.Errorf("%w: calibre et type de caisse sont obligatoires", ErrValidation)
	}
	if item.Quantity < 0 {
		return nil, fmt.Errorf("%w: la quantité ne peut pas être négative", ErrValidation)
	}
	item.ID = uuid.NewString()
	item.UpdatedAt = time.Now()
	if err := s.store.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return item, nil
}

// Adjust sets the stock level of an item to an absolute quantity.
func (s *Service) Adjust(ctx context.Context, id string, quantity int) (*models.InventoryItem, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: la quantité ne peut pas être négative", ErrValidation)
	}
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to adjust inventory item %s: %w", id, err)
	}
	return item, nil
}

// Consume records consumption against an item and decrements its stock.
// Stock may not go negative.
func (s *Service) Consume(ctx context.Context, itemID string, quantity int, note string) (*models.InventoryItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: la quantité consommée doit être positive", ErrValidation)
	}
	item, err := s.store.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Quantity < quantity {
		return nil, fmt.Errorf("%w: stock insuffisant (%d disponible)", ErrValidation, item.Quantity)
	}

	entry := &models.ConsumptionEntry{
		ID:       uuid.NewString(),
		ItemID:   itemID,
		Quantity: quantity,
		Date:     time.Now(),
		Note:     note,
	}
	if err := s.store.AppendConsumption(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record consumption for item %s: %w", itemID, err)
	}
	item.Quantity -= quantity
	item.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to decrement inventory item %s: %w", itemID, err)
	}
	return item, nil
}

// Get returns one stock item.
func (s *Service) Get(ctx context.Context, id string) (*models.InventoryItem, error) {
	return s.store.Get(ctx, id)
}

// List returns every stock item.
func (s *Service) List(ctx context.Context) ([]*models.InventoryItem, error) {
	return s.store.List(ctx)
}

// Consumption returns the consumption log for an item, newest first.
func (s *Service) Consumption(ctx context.Context, itemID string) ([]*models.ConsumptionEntry, error) {
	return s.store.ListConsumption(ctx, itemID)
}
