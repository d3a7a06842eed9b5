package orders

import (
	"context"
	"sort"
	"sync"

	"github.com/agroverde/avotrace/internal/models"
)

// MemoryStore is an in-memory Store suitable for tests.
type MemoryStore struct {
	mu     sync.Mutex
	orders map[string]*models.AvocadoOrder
}

// NewMemoryStore returns an empty in-memory order store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*models.AvocadoOrder)}
}

func cloneOrder(o *models.AvocadoOrder) *models.AvocadoOrder {
	out := *o
	out.Items = append([]models.OrderItem(nil), o.Items...)
	out.CheckedItems = make(map[string]bool, len(o.CheckedItems))
	for k, v := range o.CheckedItems {
		out.CheckedItems[k] = v
	}
	return &out
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*models.AvocadoOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (m *MemoryStore) List(ctx context.Context) ([]*models.AvocadoOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.AvocadoOrder, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, o *models.AvocadoOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = cloneOrder(o)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, o *models.AvocadoOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; !ok {
		return ErrNotFound
	}
	m.orders[o.ID] = cloneOrder(o)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, id)
	return nil
}
