package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agroverde/avotrace/internal/inventory"
	"github.com/agroverde/avotrace/internal/lots"
	"github.com/agroverde/avotrace/internal/orders"
	"github.com/agroverde/avotrace/internal/rapport"
	"github.com/agroverde/avotrace/internal/tracking"
	"github.com/agroverde/avotrace/internal/users"
	"github.com/agroverde/avotrace/internal/wizard"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON reads the request body into v. On failure it answers the
// request itself and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "corps de requête invalide"})
		return false
	}
	return true
}

var validationErrs = []error{
	lots.ErrValidation,
	rapport.ErrValidation,
	orders.ErrValidation,
	tracking.ErrValidation,
	users.ErrValidation,
	inventory.ErrValidation,
	wizard.ErrValidation,
}

var notFoundErrs = []error{
	lots.ErrNotFound,
	rapport.ErrNotFound,
	orders.ErrNotFound,
	tracking.ErrNotFound,
	users.ErrNotFound,
	inventory.ErrNotFound,
}

var conflictErrs = []error{
	lots.ErrPhase,
	orders.ErrInvalidTransition,
	wizard.ErrInvalidTransition,
}

// writeError maps service errors onto the API's status codes. Validation
// failures carry their message through to the client; everything else
// gets a generic localized message so internals never leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := classify(err)
	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		slog.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
	}
	writeJSON(w, code, errorResponse{Error: msg})
}

func classify(err error) (int, string) {
	for _, target := range validationErrs {
		if errors.Is(err, target) {
			return http.StatusBadRequest, err.Error()
		}
	}
	for _, target := range notFoundErrs {
		if errors.Is(err, target) {
			return http.StatusNotFound, "ressource introuvable"
		}
	}
	for _, target := range conflictErrs {
		if errors.Is(err, target) {
			return http.StatusConflict, err.Error()
		}
	}
	switch status.Code(err) {
	case codes.PermissionDenied:
		return http.StatusForbidden, "accès refusé"
	case codes.Unavailable:
		return http.StatusServiceUnavailable, "service momentanément indisponible"
	}
	return http.StatusInternalServerError, "erreur interne"
}
