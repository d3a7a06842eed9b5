package server

import (
	"net/http"

	"github.com/agroverde/avotrace/internal/models"
)

func (s *Server) handleInventoryList(w http.ResponseWriter, r *http.Request) {
	list, err := s.inventory.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleInventoryCreate(w http.ResponseWriter, r *http.Request) {
	var item models.InventoryItem
	if !decodeJSON(w, r, &item) {
		return
	}
	created, err := s.inventory.Create(r.Context(), &item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleInventoryGet(w http.ResponseWriter, r *http.Request) {
	item, err := s.inventory.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type adjustRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) handleInventoryAdjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := s.inventory.Adjust(r.Context(), r.PathValue("id"), req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type consumeRequest struct {
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

func (s *Server) handleInventoryConsume(w http.ResponseWriter, r *http.Request) {
	var req consumeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := s.inventory.Consume(r.Context(), r.PathValue("id"), req.Quantity, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleInventoryConsumption(w http.ResponseWriter, r *http.Request) {
	entries, err := s.inventory.Consumption(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
