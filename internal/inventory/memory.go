package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/agroverde/avotrace/internal/models"
)

// MemoryStore is an in-memory Store suitable for tests.
type MemoryStore struct {
	mu      sync.Mutex
	items   map[string]models.InventoryItem
	entries []models.ConsumptionEntry
}

// NewMemoryStore returns an empty in-memory inventory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]models.InventoryItem)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]*models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.InventoryItem, 0, len(m.items))
	for _, item := range m.items {
		it := item
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Caliber < out[j].Caliber })
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, item *models.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = *item
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, item *models.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return ErrNotFound
	}
	m.items[item.ID] = *item
	return nil
}

func (m *MemoryStore) AppendConsumption(ctx context.Context, entry *models.ConsumptionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MemoryStore) ListConsumption(ctx context.Context, itemID string) ([]*models.ConsumptionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.ConsumptionEntry, 0)
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].ItemID == itemID {
			e := m.entries[i]
			out = append(out, &e)
		}
	}
	return out, nil
}
