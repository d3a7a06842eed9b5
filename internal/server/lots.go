package server

import (
	"net/http"

	"github.com/agroverde/avotrace/internal/models"
)

func (s *Server) handleLotsList(w http.ResponseWriter, r *http.Request) {
	list, err := s.lots.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleLotsCreate(w http.ResponseWriter, r *http.Request) {
	var lot models.QualityControlLot
	if !decodeJSON(w, r, &lot) {
		return
	}
	created, err := s.lots.Create(r.Context(), &lot)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleLotsGet(w http.ResponseWriter, r *http.Request) {
	lot, err := s.lots.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}

func (s *Server) handleLotsUpdate(w http.ResponseWriter, r *http.Request) {
	var lot models.QualityControlLot
	if !decodeJSON(w, r, &lot) {
		return
	}
	lot.ID = r.PathValue("id")
	updated, err := s.lots.Update(r.Context(), &lot)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleLotsDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.lots.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "lot supprimé"})
}

func (s *Server) handleLotsSubmit(w http.ResponseWriter, r *http.Request) {
	lot, err := s.lots.Submit(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}

type approveRequest struct {
	ChiefEmail string `json:"chiefEmail"`
	Comment    string `json:"comment"`
	Approved   bool   `json:"approved"`
}

func (s *Server) handleLotsApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lot, err := s.lots.Approve(r.Context(), r.PathValue("id"), req.ChiefEmail, req.Comment, req.Approved)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}
