package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/agroverde/avotrace/internal/rapport"
)

var (
	ingestInstance *rapport.ImageIngestFunction
	once           sync.Once
	initErr        error
)

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.CloudEvent("IngestCalibreImage", ingestCalibreImage)
}

// main is required by the Go Functions Framework.
func main() {}

// ingestCalibreImage handles object-finalized events from the photo
// bucket and registers calibre images on their rapport.
func ingestCalibreImage(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		ingestInstance, initErr = rapport.NewImageIngest(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var gcsEvent rapport.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return ingestInstance.Process(ctx, gcsEvent)
}
