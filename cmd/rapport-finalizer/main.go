package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/agroverde/avotrace/internal/models"
	"github.com/agroverde/avotrace/internal/rapport"
)

var (
	finalizerInstance *rapport.FinalizerFunction
	once              sync.Once
	initErr           error
)

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP("HandleFinalizeRapport", handleFinalizeRapport)
}

func main() {}

// handleFinalizeRapport is the HTTP handler the finalize workflow calls.
func handleFinalizeRapport(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		finalizerInstance, initErr = rapport.NewFinalizer(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical: finalizer initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var req models.FinalizeRapportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Could not decode request body", "error", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}
	if req.LotID == "" {
		http.Error(w, "Bad Request: lotId is required", http.StatusBadRequest)
		return
	}

	res, err := finalizerInstance.Process(r.Context(), &req)
	if err != nil {
		// Error is already logged with context in the Process method.
		http.Error(w, "Internal Server Error: finalization failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error("Failed to write response", "error", err, "lotId", req.LotID, "executionId", req.ExecutionID)
		http.Error(w, "Internal Server Error: failed to encode response", http.StatusInternalServerError)
	}
}
