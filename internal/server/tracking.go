package server

import (
	"fmt"
	"net/http"

	"github.com/agroverde/avotrace/internal/models"
	"github.com/agroverde/avotrace/internal/wizard"
)

func (s *Server) handleTrackingList(w http.ResponseWriter, r *http.Request) {
	list, err := s.tracking.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleTrackingGet(w http.ResponseWriter, r *http.Request) {
	t, err := s.tracking.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleTrackingDraft saves wizard state as-is. The record's lastStep
// field carries which wizard page the user was on.
func (s *Server) handleTrackingDraft(w http.ResponseWriter, r *http.Request) {
	var t models.AvocadoTracking
	if !decodeJSON(w, r, &t) {
		return
	}
	saved, err := s.tracking.SaveDraft(r.Context(), &t, wizard.Stage(t.LastStep))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleTrackingSubmit(w http.ResponseWriter, r *http.Request) {
	var t models.AvocadoTracking
	if !decodeJSON(w, r, &t) {
		return
	}
	submitted, err := s.tracking.Submit(r.Context(), &t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submitted)
}

func (s *Server) handleTrackingDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.tracking.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "dossier supprimé"})
}

func (s *Server) handleTrackingCertificate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	pdf, err := s.tracking.Certificate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=certificat_%s.pdf", id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		// The response is already committed; nothing useful to send.
		return
	}
}
