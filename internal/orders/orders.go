// Package orders manages avocado client orders: creation, a restricted
// status lifecycle, and per-item checked tracking keyed by the derived
// item identity.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agroverde/avotrace/internal/models"
)

var (
	// ErrNotFound is returned when no order has the given ID.
	ErrNotFound = errors.New("order not found")
	// ErrValidation marks user-facing validation failures.
	ErrValidation = errors.New("validation")
	// ErrInvalidTransition is returned for status changes outside the
	// lifecycle table.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// statusTransitions is the allowed lifecycle. Terminal states have no
// outgoing edges.
var statusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusDelayed, models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusDelayed:    {models.OrderStatusProcessing, models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Store persists orders.
type Store interface {
	Get(ctx context.Context, id string) (*models.AvocadoOrder, error)
	List(ctx context.Context) ([]*models.AvocadoOrder, error)
	Create(ctx context.Context, o *models.AvocadoOrder) error
	Update(ctx context.Context, o *models.AvocadoOrder) error
	Delete(ctx context.Context, id string) error
}

// Service applies the order rules on top of a Store.
type Service struct {
	store Store
}

// NewService wraps a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates and stores a new pending order.
func (s *Service) Create(ctx context.Context, o *models.AvocadoOrder) (*models.AvocadoOrder, error) {
	if o.ClientName == "" {
		return nil, fmt.Errorf("%w: le nom du client est obligatoire", ErrValidation)
	}
	if len(o.Items) == 0 {
		return nil, fmt.Errorf("%w: une commande doit contenir au moins un article", ErrValidation)
	}
	for _, item := range o.Items {
		if item.Caliber == "" || item.Type == "" {
			return nil, fmt.Errorf("%w: chaque article requiert un calibre et un type", ErrValidation)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: la quantité doit être positive", ErrValidation)
		}
	}

	o.ID = uuid.NewString()
	o.Status = models.OrderStatusPending
	o.CheckedItems = map[string]bool{}
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	if err := s.store.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return o, nil
}

// SetStatus moves an order through its lifecycle. Completing an order
// stamps the actual delivery date.
func (s *Service) SetStatus(ctx context.Context, id, newStatus string) (*models.AvocadoOrder, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, newStatus)
	}
	o.Status = newStatus
	if newStatus == models.OrderStatusCompleted {
		o.ActualDelivery = time.Now()
	}
	o.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}
	return o, nil
}

// CheckItem records the checked state for one item identity. The key
// must belong to one of the order's items; identical
// (type, caliber, processingTime) triples share one key.
func (s *Service) CheckItem(ctx context.Context, id, itemKey string, checked bool) (*models.AvocadoOrder, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	known := false
	for _, item := range o.Items {
		if item.Key() == itemKey {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: article inconnu %q", ErrValidation, itemKey)
	}
	if o.CheckedItems == nil {
		o.CheckedItems = map[string]bool{}
	}
	o.CheckedItems[itemKey] = checked
	o.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}
	return o, nil
}

// Get returns one order.
func (s *Service) Get(ctx context.Context, id string) (*models.AvocadoOrder, error) {
	return s.store.Get(ctx, id)
}

// List returns all orders.
func (s *Service) List(ctx context.Context) ([]*models.AvocadoOrder, error) {
	return s.store.List(ctx)
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
