package rapport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agroverde/avotrace/internal/models"
	"github.com/agroverde/avotrace/internal/report"
	"github.com/agroverde/avotrace/internal/uploads"
)

// Test-file keys accepted alongside a calibre save.
const (
	TestFilePoids    = "poids"
	TestFileFirmness = "firmness"
	TestFilePuree    = "puree"
)

// Service orchestrates calibre saves and rapport finalization.
type Service struct {
	store    Store
	uploader uploads.Uploader
	pdfs     PDFStore
	fetch    report.ImageFetcher
	trigger  FinalizeTrigger
}

// NewService wires the rapport workflow. trigger may be nil when the
// caller finalizes inline (the finalizer function does).
func NewService(store Store, uploader uploads.Uploader, pdfs PDFStore, fetch report.ImageFetcher, trigger FinalizeTrigger) *Service {
	return &Service{store: store, uploader: uploader, pdfs: pdfs, fetch: fetch, trigger: trigger}
}

// SaveCalibreInput is one calibre's worth of pending state.
type SaveCalibreInput struct {
	LotID     string
	LotNumber string
	Calibres  []string
	Calibre   string
	Files     []uploads.File
	Result    models.CalibreResult
	TestFiles map[string]uploads.File
}

// SaveCalibre validates, uploads and persists one calibre. The gate is
// hard: unless saved plus pending images total exactly
// models.ImagesPerCalibre and the mode-appropriate result fields are all
// present, nothing is uploaded and nothing is written. On success the
// returned rapport reflects the merged state and allComplete reports
// whether every calibre of the lot is now complete.
func (s *Service) SaveCalibre(ctx context.Context, in SaveCalibreInput) (r *models.QualityRapport, allComplete bool, err error) {
	logCtx := slog.With("lotId", in.LotID, "calibre", in.Calibre)

	r, err = s.store.Get(ctx, in.LotID)
	if errors.Is(err, ErrNotFound) {
		r = newDraft(in)
		err = nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load rapport: %w", err)
	}

	saved := r.Images[in.Calibre]
	total := len(saved) + len(in.Files)
	if total != models.ImagesPerCalibre {
		return nil, false, fmt.Errorf("%w: le calibre %s requiert exactement %d images (actuellement %d)",
			ErrValidation, in.Calibre, models.ImagesPerCalibre, total)
	}
	if err := validateResult(in); err != nil {
		return nil, false, err
	}
	for _, f := range in.Files {
		if err := f.CheckSize(uploads.MaxImageBytes); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	urls, err := s.uploader.UploadAll(ctx, uploads.CategoryCalibres, in.LotID, in.Calibre, in.Files)
	if err != nil {
		logCtx.Error("Calibre image upload failed", "error", err)
		return nil, false, fmt.Errorf("failed to upload calibre images: %w", err)
	}

	result := in.Result
	if err := s.uploadTestFiles(ctx, in, &result); err != nil {
		logCtx.Error("Test image upload failed", "error", err)
		return nil, false, err
	}

	if r.Images == nil {
		r.Images = map[string][]string{}
	}
	if r.TestResults == nil {
		r.TestResults = map[string]models.CalibreResult{}
	}
	r.Images[in.Calibre] = append(saved, urls...)
	r.TestResults[in.Calibre] = result
	r.UpdatedAt = time.Now()

	if err := s.store.SaveCalibre(ctx, r, in.Calibre); err != nil {
		logCtx.Error("Failed to persist calibre", "error", err)
		return nil, false, fmt.Errorf("failed to save calibre: %w", err)
	}
	logCtx.Info("Calibre saved.", "imageCount", len(r.Images[in.Calibre]))

	allComplete = r.AllCalibresComplete()
	if allComplete && s.trigger != nil {
		if err := s.trigger.TriggerFinalize(ctx, in.LotID); err != nil {
			// The calibre itself is saved; finalize stays reachable from
			// the list view, so surface the error without undoing the save.
			logCtx.Error("Failed to trigger finalize workflow", "error", err)
			return r, true, fmt.Errorf("calibre saved but finalize trigger failed: %w", err)
		}
		logCtx.Info("All calibres complete, finalize triggered.")
	}
	return r, allComplete, nil
}

func newDraft(in SaveCalibreInput) *models.QualityRapport {
	return &models.QualityRapport{
		ID:          in.LotID,
		LotID:       in.LotID,
		LotNumber:   in.LotNumber,
		Calibres:    in.Calibres,
		Images:      map[string][]string{},
		TestResults: map[string]models.CalibreResult{},
		Status:      models.RapportStatusDraft,
		CreatedAt:   time.Now(),
	}
}

// validateResult enforces the mode-appropriate field presence, counting
// a queued test file as presence for its URL field.
func validateResult(in SaveCalibreInput) error {
	res := in.Result
	has := func(url, fileKey string) bool {
		if url != "" {
			return true
		}
		_, ok := in.TestFiles[fileKey]
		return ok
	}

	switch res.Mode {
	case models.ResultModeManual:
		if res.Poids == "" || res.Firmness == "" || !has(res.PureeImageURL, TestFilePuree) {
			return fmt.Errorf("%w: en mode manuel, poids, fermeté et photo de purée sont obligatoires", ErrValidation)
		}
	case models.ResultModeImage:
		if !has(res.PoidsImageURL, TestFilePoids) || !has(res.FirmnessImageURL, TestFileFirmness) || !has(res.PureeImageURL, TestFilePuree) {
			return fmt.Errorf("%w: en mode image, les photos de poids, fermeté et purée sont obligatoires", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: mode de résultat inconnu %q", ErrValidation, res.Mode)
	}
	return nil
}

func (s *Service) uploadTestFiles(ctx context.Context, in SaveCalibreInput, result *models.CalibreResult) error {
	targets := map[string]*string{
		TestFilePoids:    &result.PoidsImageURL,
		TestFileFirmness: &result.FirmnessImageURL,
		TestFilePuree:    &result.PureeImageURL,
	}
	for key, dest := range targets {
		f, ok := in.TestFiles[key]
		if !ok {
			continue
		}
		if err := f.CheckSize(uploads.MaxImageBytes); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		object := uploads.BuildObjectPath(uploads.CategoryTests, in.LotID, in.Calibre+key, f.Name, time.Now())
		url, err := s.uploader.Upload(ctx, object, f)
		if err != nil {
			return fmt.Errorf("failed to upload %s image: %w", key, err)
		}
		*dest = url
	}
	return nil
}

// Finalize assembles the completed rapport: writes the completed status
// with its quality score, generates and stores both PDFs, then attaches
// their URLs. When PDF generation or attachment fails the status is
// reverted to draft so the record never claims a report it does not
// have; the PDFs stay regenerable from the list view.
func (s *Service) Finalize(ctx context.Context, lotID string) (*models.QualityRapport, error) {
	logCtx := slog.With("lotId", lotID)
	logCtx.Info("Starting rapport finalization.")

	r, err := s.store.Get(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rapport: %w", err)
	}
	if !r.AllCalibresComplete() {
		return nil, fmt.Errorf("%w: tous les calibres ne sont pas complets", ErrValidation)
	}

	score := Score(r)
	if err := s.store.SetCompleted(ctx, lotID, score); err != nil {
		return nil, fmt.Errorf("failed to mark rapport completed: %w", err)
	}
	r.Status = models.RapportStatusCompleted
	r.QualityScore = score
	r.CompletedAt = time.Now()

	pdfURL, visualURL, err := s.generateAndStorePDFs(ctx, r)
	if err != nil {
		logCtx.Error("PDF generation failed, reverting rapport to draft.", "error", err)
		if revertErr := s.store.SetStatus(ctx, lotID, models.RapportStatusDraft, err.Error()); revertErr != nil {
			logCtx.Error("CRITICAL: Failed to revert rapport status after a PDF failure.", "revertError", revertErr)
		}
		return nil, err
	}

	if err := s.store.AttachPDFs(ctx, lotID, pdfURL, visualURL); err != nil {
		logCtx.Error("Failed to attach PDF URLs.", "error", err)
		return nil, fmt.Errorf("failed to attach PDF URLs: %w", err)
	}
	r.PDFURL = pdfURL
	r.VisualPDFURL = visualURL

	logCtx.Info("Rapport finalized.", "qualityScore", score, "pdfUrl", pdfURL)
	return r, nil
}

// RegeneratePDFs rebuilds and re-attaches both reports for an already
// completed rapport, on demand from the list view.
func (s *Service) RegeneratePDFs(ctx context.Context, lotID string) (*models.QualityRapport, error) {
	r, err := s.store.Get(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rapport: %w", err)
	}
	if r.Status != models.RapportStatusCompleted {
		return nil, fmt.Errorf("%w: seul un rapport complété peut être régénéré", ErrValidation)
	}

	pdfURL, visualURL, err := s.generateAndStorePDFs(ctx, r)
	if err != nil {
		return nil, err
	}
	if err := s.store.AttachPDFs(ctx, lotID, pdfURL, visualURL); err != nil {
		return nil, fmt.Errorf("failed to attach PDF URLs: %w", err)
	}
	r.PDFURL = pdfURL
	r.VisualPDFURL = visualURL
	return r, nil
}

func (s *Service) generateAndStorePDFs(ctx context.Context, r *models.QualityRapport) (pdfURL, visualURL string, err error) {
	ts := time.Now().UnixMilli()

	raw, err := report.Standard(r)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate standard report: %w", err)
	}
	optimized, pages, err := report.Finish(raw)
	if err != nil {
		return "", "", fmt.Errorf("failed to finish standard report: %w", err)
	}
	pdfURL, err = s.pdfs.SavePDF(ctx, fmt.Sprintf("rapport_%s_%d.pdf", r.LotNumber, ts), optimized)
	if err != nil {
		return "", "", fmt.Errorf("failed to store standard report: %w", err)
	}
	slog.Info("Standard report stored.", "lotId", r.LotID, "pages", pages)

	rawVisual, err := report.Visual(ctx, r, s.fetch)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate visual report: %w", err)
	}
	optimizedVisual, visualPages, err := report.Finish(rawVisual)
	if err != nil {
		return "", "", fmt.Errorf("failed to finish visual report: %w", err)
	}
	visualURL, err = s.pdfs.SavePDF(ctx, fmt.Sprintf("rapport_visuel_%s_%d.pdf", r.LotNumber, ts), optimizedVisual)
	if err != nil {
		return "", "", fmt.Errorf("failed to store visual report: %w", err)
	}
	slog.Info("Visual report stored.", "lotId", r.LotID, "pages", visualPages)

	return pdfURL, visualURL, nil
}

// Get returns one rapport by lot ID.
func (s *Service) Get(ctx context.Context, lotID string) (*models.QualityRapport, error) {
	return s.store.Get(ctx, lotID)
}

// List returns every rapport.
func (s *Service) List(ctx context.Context) ([]*models.QualityRapport, error) {
	return s.store.List(ctx)
}
