package lots

import (
	"context"
	"sort"
	"sync"

	"github.com/agroverde/avotrace/internal/models"
)

// MemoryStore is an in-memory Store suitable for tests.
type MemoryStore struct {
	mu   sync.Mutex
	lots map[string]*models.QualityControlLot
}

// NewMemoryStore returns an empty in-memory lot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lots: make(map[string]*models.QualityControlLot)}
}

func cloneLot(lot *models.QualityControlLot) *models.QualityControlLot {
	out := *lot
	out.Images = append([]string(nil), lot.Images...)
	out.Calibres = append([]string(nil), lot.Calibres...)
	out.FormData.Palettes = append([]models.Palette(nil), lot.FormData.Palettes...)
	return &out
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*models.QualityControlLot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lot, ok := m.lots[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneLot(lot), nil
}

func (m *MemoryStore) List(ctx context.Context, statusFilter string) ([]*models.QualityControlLot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.QualityControlLot, 0, len(m.lots))
	for _, lot := range m.lots {
		if statusFilter != "" && lot.Status != statusFilter {
			continue
		}
		out = append(out, cloneLot(lot))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, lot *models.QualityControlLot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lots[lot.ID] = cloneLot(lot)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, lot *models.QualityControlLot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lots[lot.ID]; !ok {
		return ErrNotFound
	}
	m.lots[lot.ID] = cloneLot(lot)
	return nil
}

func (m *MemoryStore) UpdateApproval(ctx context.Context, lot *models.QualityControlLot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.lots[lot.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Status = lot.Status
	existing.Phase = lot.Phase
	existing.ChiefEmail = lot.ChiefEmail
	existing.ChiefComment = lot.ChiefComment
	existing.ApprovalDate = lot.ApprovalDate
	existing.UpdatedAt = lot.UpdatedAt
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lots, id)
	return nil
}
