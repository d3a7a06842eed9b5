// Package server exposes the JSON API consumed by the web client. Every
// route delegates to a domain service; the handlers only translate
// between HTTP and the service calls.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agroverde/avotrace/internal/inventory"
	"github.com/agroverde/avotrace/internal/lots"
	"github.com/agroverde/avotrace/internal/orders"
	"github.com/agroverde/avotrace/internal/rapport"
	"github.com/agroverde/avotrace/internal/tracking"
	"github.com/agroverde/avotrace/internal/users"
)

// Server bundles the domain services behind one HTTP handler.
type Server struct {
	lots      *lots.Service
	rapports  *rapport.Service
	orders    *orders.Service
	tracking  *tracking.Service
	users     *users.Service
	inventory *inventory.Service
}

// New wires the API server from its domain services.
func New(
	lotSvc *lots.Service,
	rapportSvc *rapport.Service,
	orderSvc *orders.Service,
	trackingSvc *tracking.Service,
	userSvc *users.Service,
	inventorySvc *inventory.Service,
) *Server {
	return &Server{
		lots:      lotSvc,
		rapports:  rapportSvc,
		orders:    orderSvc,
		tracking:  trackingSvc,
		users:     userSvc,
		inventory: inventorySvc,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/lots", instrument("lots_list", s.handleLotsList))
	mux.HandleFunc("POST /api/lots", instrument("lots_create", s.handleLotsCreate))
	mux.HandleFunc("GET /api/lots/{id}", instrument("lots_get", s.handleLotsGet))
	mux.HandleFunc("PUT /api/lots/{id}", instrument("lots_update", s.handleLotsUpdate))
	mux.HandleFunc("DELETE /api/lots/{id}", instrument("lots_delete", s.handleLotsDelete))
	mux.HandleFunc("POST /api/lots/{id}/submit", instrument("lots_submit", s.handleLotsSubmit))
	mux.HandleFunc("POST /api/lots/{id}/approve", instrument("lots_approve", s.handleLotsApprove))

	mux.HandleFunc("GET /api/rapports", instrument("rapports_list", s.handleRapportsList))
	mux.HandleFunc("GET /api/rapports/{lotId}", instrument("rapports_get", s.handleRapportsGet))
	mux.HandleFunc("POST /api/rapports/{lotId}/save-calibre", instrument("rapports_save_calibre", s.handleRapportsSaveCalibre))
	mux.HandleFunc("POST /api/rapports/{lotId}/finalize", instrument("rapports_finalize", s.handleRapportsFinalize))
	mux.HandleFunc("POST /api/rapports/{lotId}/regenerate-pdf", instrument("rapports_regenerate_pdf", s.handleRapportsRegeneratePDF))

	mux.HandleFunc("GET /api/orders", instrument("orders_list", s.handleOrdersList))
	mux.HandleFunc("POST /api/orders", instrument("orders_create", s.handleOrdersCreate))
	mux.HandleFunc("GET /api/orders/{id}", instrument("orders_get", s.handleOrdersGet))
	mux.HandleFunc("DELETE /api/orders/{id}", instrument("orders_delete", s.handleOrdersDelete))
	mux.HandleFunc("POST /api/orders/{id}/status", instrument("orders_status", s.handleOrdersSetStatus))
	mux.HandleFunc("POST /api/orders/{id}/check-item", instrument("orders_check_item", s.handleOrdersCheckItem))

	mux.HandleFunc("GET /api/tracking", instrument("tracking_list", s.handleTrackingList))
	mux.HandleFunc("POST /api/tracking/draft", instrument("tracking_draft", s.handleTrackingDraft))
	mux.HandleFunc("POST /api/tracking/submit", instrument("tracking_submit", s.handleTrackingSubmit))
	mux.HandleFunc("GET /api/tracking/{id}", instrument("tracking_get", s.handleTrackingGet))
	mux.HandleFunc("DELETE /api/tracking/{id}", instrument("tracking_delete", s.handleTrackingDelete))
	mux.HandleFunc("GET /api/tracking/{id}/certificate", instrument("tracking_certificate", s.handleTrackingCertificate))

	mux.HandleFunc("GET /api/users", instrument("users_list", s.handleUsersList))
	mux.HandleFunc("POST /api/users", instrument("users_create", s.handleUsersCreate))
	mux.HandleFunc("GET /api/users/sections", instrument("users_sections", s.handleUsersSections))
	mux.HandleFunc("GET /api/users/{id}", instrument("users_get", s.handleUsersGet))
	mux.HandleFunc("PUT /api/users/{id}", instrument("users_update", s.handleUsersUpdate))
	mux.HandleFunc("DELETE /api/users/{id}", instrument("users_delete", s.handleUsersDelete))
	mux.HandleFunc("POST /api/users/{id}/boxes/{boxId}/files", instrument("users_box_file", s.handleUsersBoxFileUpload))

	mux.HandleFunc("GET /api/inventory", instrument("inventory_list", s.handleInventoryList))
	mux.HandleFunc("POST /api/inventory", instrument("inventory_create", s.handleInventoryCreate))
	mux.HandleFunc("GET /api/inventory/{id}", instrument("inventory_get", s.handleInventoryGet))
	mux.HandleFunc("POST /api/inventory/{id}/adjust", instrument("inventory_adjust", s.handleInventoryAdjust))
	mux.HandleFunc("POST /api/inventory/{id}/consume", instrument("inventory_consume", s.handleInventoryConsume))
	mux.HandleFunc("GET /api/inventory/{id}/consumption", instrument("inventory_consumption", s.handleInventoryConsumption))

	return mux
}
