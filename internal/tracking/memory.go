package tracking

import (
	"context"
	"sort"
	"sync"

	"github.com/agroverde/avotrace/internal/models"
)

// MemoryStore is an in-memory Store suitable for tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*models.AvocadoTracking
}

// NewMemoryStore returns an empty in-memory tracking store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.AvocadoTracking)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*models.AvocadoTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *t
	return &out, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]*models.AvocadoTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.AvocadoTracking, 0, len(m.records))
	for _, t := range m.records {
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) Set(ctx context.Context, t *models.AvocadoTracking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *t
	m.records[t.ID] = &c
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}
