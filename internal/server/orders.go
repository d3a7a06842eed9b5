package server

import (
	"net/http"

	"github.com/agroverde/avotrace/internal/models"
)

func (s *Server) handleOrdersList(w http.ResponseWriter, r *http.Request) {
	list, err := s.orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleOrdersCreate(w http.ResponseWriter, r *http.Request) {
	var order models.AvocadoOrder
	if !decodeJSON(w, r, &order) {
		return
	}
	created, err := s.orders.Create(r.Context(), &order)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleOrdersGet(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleOrdersDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.orders.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "commande supprimée"})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleOrdersSetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := s.orders.SetStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type checkItemRequest struct {
	ItemKey string `json:"itemKey"`
	Checked bool   `json:"checked"`
}

func (s *Server) handleOrdersCheckItem(w http.ResponseWriter, r *http.Request) {
	var req checkItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := s.orders.CheckItem(r.Context(), r.PathValue("id"), req.ItemKey, req.Checked)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
