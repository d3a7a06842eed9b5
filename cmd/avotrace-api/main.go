package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	executions "cloud.google.com/go/workflows/executions/apiv1"

	"github.com/agroverde/avotrace/internal/gcp"
	"github.com/agroverde/avotrace/internal/inventory"
	"github.com/agroverde/avotrace/internal/lots"
	"github.com/agroverde/avotrace/internal/orders"
	"github.com/agroverde/avotrace/internal/rapport"
	"github.com/agroverde/avotrace/internal/report"
	"github.com/agroverde/avotrace/internal/server"
	"github.com/agroverde/avotrace/internal/tracking"
	"github.com/agroverde/avotrace/internal/uploads"
	"github.com/agroverde/avotrace/internal/users"
)

// apiConfig holds the API server's environment configuration.
type apiConfig struct {
	ProjectID          string
	PhotoBucket        string
	BoxFileBucket      string
	PDFBucket          string
	WorkflowLocation   string
	FinalizeWorkflowID string
	Port               string
}

func loadConfig() (apiConfig, error) {
	config := apiConfig{
		ProjectID:          gcp.GetEnv("PROJECT_ID", ""),
		PhotoBucket:        gcp.GetEnv("PHOTO_BUCKET", ""),
		BoxFileBucket:      gcp.GetEnv("BOX_FILE_BUCKET", ""),
		PDFBucket:          gcp.GetEnv("RAPPORT_PDF_BUCKET", ""),
		WorkflowLocation:   gcp.GetEnv("WORKFLOW_LOCATION", "europe-west1"),
		FinalizeWorkflowID: gcp.GetEnv("FINALIZE_WORKFLOW_ID", "rapport-finalize"),
		Port:               gcp.GetEnv("PORT", "8080"),
	}
	if config.ProjectID == "" {
		return apiConfig{}, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	if config.PhotoBucket == "" || config.PDFBucket == "" {
		return apiConfig{}, fmt.Errorf("PHOTO_BUCKET and RAPPORT_PDF_BUCKET must be set")
	}
	if config.BoxFileBucket == "" {
		config.BoxFileBucket = config.PhotoBucket
	}
	return config, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	fsClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return err
	}
	defer fsClient.Close()

	storageClient, err := gcp.NewStorageClient(ctx)
	if err != nil {
		return err
	}
	defer storageClient.Close()

	execClient, err := executions.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create workflow executions client: %w", err)
	}
	defer execClient.Close()

	rapportSvc := rapport.NewService(
		rapport.NewFirestoreStore(fsClient),
		uploads.NewGCSUploader(storageClient, config.PhotoBucket),
		rapport.NewGCSPDFStore(storageClient, config.PDFBucket),
		report.HTTPFetcher(30*time.Second),
		rapport.NewWorkflowTrigger(execClient, config.ProjectID, config.WorkflowLocation, config.FinalizeWorkflowID),
	)

	srv := server.New(
		lots.NewService(lots.NewFirestoreStore(fsClient)),
		rapportSvc,
		orders.NewService(orders.NewFirestoreStore(fsClient)),
		tracking.NewService(tracking.NewFirestoreStore(fsClient)),
		users.NewService(users.NewFirestoreStore(fsClient), uploads.NewGCSUploader(storageClient, config.BoxFileBucket)),
		inventory.NewService(inventory.NewFirestoreStore(fsClient)),
	)

	httpServer := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server listening.", "port", config.Port, "project", config.ProjectID)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("Shutting down.")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
