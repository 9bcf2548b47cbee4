package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/embodywellness/member-api/internal/dashboard"
	"github.com/embodywellness/member-api/internal/request"
)

// AdminHandler serves the coach dashboard aggregates
type AdminHandler struct {
	service *dashboard.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service *dashboard.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers admin routes on the given router
// The router should already have the /api/v1/admin prefix and auth middleware
func (h *AdminHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/overview", h.GetOverview).Methods("GET")
	r.HandleFunc("/members", h.GetMembers).Methods("GET")
	r.HandleFunc("/checkins", h.GetRecentCheckIns).Methods("GET")
}

// GetOverview returns the dashboard summary counters
func (h *AdminHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	caller := request.UserFromContext(r)
	overview, err := h.service.LoadOverview(r.Context(), caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, overview)
}

// GetMembers returns every member with check-in totals, newest first
func (h *AdminHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	caller := request.UserFromContext(r)
	members, err := h.service.LoadMembers(r.Context(), caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, members)
}

// GetRecentCheckIns returns the latest check-ins with member attribution
func (h *AdminHandler) GetRecentCheckIns(w http.ResponseWriter, r *http.Request) {
	caller := request.UserFromContext(r)
	checkIns, err := h.service.LoadRecentCheckIns(r.Context(), caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, checkIns)
}
