package rapport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agroverde/avotrace/internal/gcp"
	"github.com/agroverde/avotrace/internal/uploads"
)

// GCSEvent is the payload of a storage object-finalized event.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// ImageIngestFunction reconciles direct-to-bucket calibre uploads into
// the rapport document. The API upload path writes the URL list itself;
// this function covers clients that upload straight to storage and rely
// on the event to register the image.
type ImageIngestFunction struct {
	store Store
}

// NewImageIngest creates an ImageIngestFunction from the environment.
func NewImageIngest(ctx context.Context) (*ImageIngestFunction, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	fsClient, err := gcp.NewFirestoreClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &ImageIngestFunction{store: NewFirestoreStore(fsClient)}, nil
}

// NewImageIngestWithStore wires the function onto an existing store.
func NewImageIngestWithStore(store Store) *ImageIngestFunction {
	return &ImageIngestFunction{store: store}
}

// parseCalibrePath extracts (lotID, calibre) from a calibre image object
// name of the form quality_control/calibres/<lotID>/<calibre>/<file>.
// Objects in other categories or with unexpected shapes return ok=false.
func parseCalibrePath(name string) (lotID, calibre string, ok bool) {
	parts := strings.Split(name, "/")
	if len(parts) != 5 {
		return "", "", false
	}
	if parts[0] != "quality_control" || parts[1] != uploads.CategoryCalibres {
		return "", "", false
	}
	if parts[2] == "" || parts[3] == "" || parts[4] == "" {
		return "", "", false
	}
	return parts[2], parts[3], true
}

// Process registers one uploaded calibre image on its rapport. Events
// for non-calibre objects are skipped; events for lots without a rapport
// yet are skipped too, the save-calibre write will pick the image up.
func (f *ImageIngestFunction) Process(ctx context.Context, e GCSEvent) error {
	lotID, calibre, ok := parseCalibrePath(e.Name)
	if !ok {
		slog.Debug("Skipping non-calibre object.", "object", e.Name)
		return nil
	}
	logCtx := slog.With("lotId", lotID, "calibre", calibre, "object", e.Name)

	url := gcp.ObjectURL(e.Bucket, e.Name)
	err := f.store.AppendImage(ctx, lotID, calibre, url)
	if errors.Is(err, ErrNotFound) {
		logCtx.Warn("No rapport for uploaded image yet, skipping.")
		return nil
	}
	if err != nil {
		logCtx.Error("Failed to register calibre image", "error", err)
		return err
	}
	logCtx.Info("Registered calibre image.")
	return nil
}
