// Package rapport implements the per-lot quality rapport workflow: one
// partial write per completed calibre, a hard validation gate in front
// of every write, and a finalize sequence that generates and attaches
// the PDF reports once all calibres are complete.
package rapport

import (
	"context"
	"errors"

	"github.com/agroverde/avotrace/internal/models"
)

// ErrNotFound is returned when no rapport exists for a lot.
var ErrNotFound = errors.New("rapport not found")

// ErrValidation marks user-facing validation failures. Callers map it to
// a 400 with the wrapped message; no write has happened when it is
// returned.
var ErrValidation = errors.New("validation")

// Store persists quality rapports. The Firestore implementation is the
// production backend; Memory backs the tests.
type Store interface {
	// Get returns the rapport keyed by lot ID, or ErrNotFound.
	Get(ctx context.Context, lotID string) (*models.QualityRapport, error)
	// List returns all rapports, newest first.
	List(ctx context.Context) ([]*models.QualityRapport, error)
	// SaveCalibre merge-writes one calibre's images and results plus the
	// rapport identity fields.
	SaveCalibre(ctx context.Context, r *models.QualityRapport, calibre string) error
	// SetCompleted marks the rapport completed with its quality score.
	SetCompleted(ctx context.Context, lotID string, score float64) error
	// AttachPDFs records the generated report URLs.
	AttachPDFs(ctx context.Context, lotID, pdfURL, visualPDFURL string) error
	// SetStatus overwrites the status, optionally recording error details.
	SetStatus(ctx context.Context, lotID, status, errDetails string) error
	// AppendImage adds one image URL to a calibre's list. Appending a URL
	// that is already present is a no-op, so storage event deliveries can
	// be retried safely.
	AppendImage(ctx context.Context, lotID, calibre, url string) error
}

// PDFStore persists generated report documents and returns fetch URLs.
type PDFStore interface {
	SavePDF(ctx context.Context, filename string, content []byte) (string, error)
}

// FinalizeTrigger hands a fully complete lot off to the finalize
// workflow. The API server triggers a Cloud Workflows execution; tests
// record the call.
type FinalizeTrigger interface {
	TriggerFinalize(ctx context.Context, lotID string) error
}
