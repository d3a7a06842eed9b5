package rapport

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/agroverde/avotrace/internal/models"
)

// MemoryStore is an in-memory Store suitable for tests.
type MemoryStore struct {
	mu       sync.Mutex
	rapports map[string]*models.QualityRapport
	failNext error
}

// NewMemoryStore returns an empty in-memory rapport store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rapports: make(map[string]*models.QualityRapport)}
}

// FailNextWrite makes the next write operation fail with err.
func (m *MemoryStore) FailNextWrite(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MemoryStore) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func clone(r *models.QualityRapport) *models.QualityRapport {
	out := *r
	out.Calibres = append([]string(nil), r.Calibres...)
	out.Images = make(map[string][]string, len(r.Images))
	for k, v := range r.Images {
		out.Images[k] = append([]string(nil), v...)
	}
	out.TestResults = make(map[string]models.CalibreResult, len(r.TestResults))
	for k, v := range r.TestResults {
		out.TestResults[k] = v
	}
	return &out
}

func (m *MemoryStore) Get(ctx context.Context, lotID string) (*models.QualityRapport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rapports[lotID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(r), nil
}

func (m *MemoryStore) List(ctx context.Context) ([]*models.QualityRapport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.QualityRapport, 0, len(m.rapports))
	for _, r := range m.rapports {
		out = append(out, clone(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) SaveCalibre(ctx context.Context, r *models.QualityRapport, calibre string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	existing, ok := m.rapports[r.LotID]
	if !ok {
		existing = &models.QualityRapport{
			ID:          r.LotID,
			LotID:       r.LotID,
			LotNumber:   r.LotNumber,
			Calibres:    append([]string(nil), r.Calibres...),
			Images:      map[string][]string{},
			TestResults: map[string]models.CalibreResult{},
			Status:      r.Status,
			CreatedAt:   r.CreatedAt,
		}
		m.rapports[r.LotID] = existing
	}
	existing.Images[calibre] = append([]string(nil), r.Images[calibre]...)
	existing.TestResults[calibre] = r.TestResults[calibre]
	existing.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) SetCompleted(ctx context.Context, lotID string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	r, ok := m.rapports[lotID]
	if !ok {
		return ErrNotFound
	}
	r.Status = models.RapportStatusCompleted
	r.QualityScore = score
	r.CompletedAt = time.Now()
	r.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) AttachPDFs(ctx context.Context, lotID, pdfURL, visualPDFURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	r, ok := m.rapports[lotID]
	if !ok {
		return ErrNotFound
	}
	r.PDFURL = pdfURL
	r.VisualPDFURL = visualPDFURL
	r.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) SetStatus(ctx context.Context, lotID, newStatus, errDetails string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	r, ok := m.rapports[lotID]
	if !ok {
		return ErrNotFound
	}
	r.Status = newStatus
	r.ErrorDetails = errDetails
	r.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) AppendImage(ctx context.Context, lotID, calibre, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	r, ok := m.rapports[lotID]
	if !ok {
		return ErrNotFound
	}
	for _, existing := range r.Images[calibre] {
		if existing == url {
			return nil
		}
	}
	if r.Images == nil {
		r.Images = map[string][]string{}
	}
	r.Images[calibre] = append(r.Images[calibre], url)
	r.UpdatedAt = time.Now()
	return nil
}

// Seed inserts a rapport directly, bypassing validation. Tests only.
func (m *MemoryStore) Seed(r *models.QualityRapport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rapports[r.LotID] = clone(r)
}

// MemoryPDFStore collects generated PDFs in memory. Tests only.
type MemoryPDFStore struct {
	mu    sync.Mutex
	PDFs  map[string][]byte
	Fail  error
	count int
}

// NewMemoryPDFStore returns an empty in-memory PDF store.
func NewMemoryPDFStore() *MemoryPDFStore {
	return &MemoryPDFStore{PDFs: make(map[string][]byte)}
}

func (m *MemoryPDFStore) SavePDF(ctx context.Context, filename string, content []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return "", m.Fail
	}
	m.PDFs[filename] = content
	m.count++
	return "mem://rapports/pdfs/" + filename, nil
}

// Saves returns the number of SavePDF calls that succeeded.
func (m *MemoryPDFStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// MemoryTrigger records finalize hand-offs. Tests only.
type MemoryTrigger struct {
	mu     sync.Mutex
	LotIDs []string
	Fail   error
}

func (m *MemoryTrigger) TriggerFinalize(ctx context.Context, lotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.LotIDs = append(m.LotIDs, lotID)
	return nil
}
