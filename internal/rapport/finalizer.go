package rapport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agroverde/avotrace/internal/gcp"
	"github.com/agroverde/avotrace/internal/models"
	"github.com/agroverde/avotrace/internal/report"
)

// FinalizerConfig holds configuration for the finalizer function.
type FinalizerConfig struct {
	ProjectID string
	PDFBucket string
}

// FinalizerFunction finalizes a rapport from inside the Cloud Workflows
// execution: it runs the completion check, the score and the PDF
// generation, then attaches the results.
type FinalizerFunction struct {
	svc    *Service
	config FinalizerConfig
}

// NewFinalizer creates a FinalizerFunction from the environment.
func NewFinalizer(ctx context.Context) (*FinalizerFunction, error) {
	config := FinalizerConfig{
		ProjectID: gcp.GetEnv("PROJECT_ID", ""),
		PDFBucket: gcp.GetEnv("RAPPORT_PDF_BUCKET", ""),
	}
	if config.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	if config.PDFBucket == "" {
		return nil, fmt.Errorf("RAPPORT_PDF_BUCKET environment variable must be set")
	}

	fsClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, err
	}
	storageClient, err := gcp.NewStorageClient(ctx)
	if err != nil {
		return nil, err
	}

	// The finalizer never uploads calibre images and finalizes inline, so
	// it needs neither an uploader nor a trigger.
	svc := NewService(
		NewFirestoreStore(fsClient),
		nil,
		NewGCSPDFStore(storageClient, config.PDFBucket),
		report.HTTPFetcher(30*time.Second),
		nil,
	)
	return &FinalizerFunction{svc: svc, config: config}, nil
}

// Process finalizes the lot named by the request.
func (f *FinalizerFunction) Process(ctx context.Context, req *models.FinalizeRapportRequest) (*models.FinalizeRapportResponse, error) {
	logCtx := slog.With("lotId", req.LotID, "executionId", req.ExecutionID)
	logCtx.Info("Starting rapport finalization.")

	r, err := f.svc.Finalize(ctx, req.LotID)
	if err != nil {
		logCtx.Error("Finalization failed", "error", err)
		return nil, err
	}

	logCtx.Info("Finalization complete.", "score", r.QualityScore)
	return &models.FinalizeRapportResponse{
		Status:       r.Status,
		PDFURL:       r.PDFURL,
		VisualPDFURL: r.VisualPDFURL,
	}, nil
}
