package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/embodywellness/member-api/internal/dashboard"
	"github.com/embodywellness/member-api/internal/request"
	"github.com/embodywellness/member-api/internal/validation"
)

// CheckInHandler handles member check-in and progress requests
type CheckInHandler struct {
	member *dashboard.MemberService
}

// NewCheckInHandler creates a new check-in handler
func NewCheckInHandler(member *dashboard.MemberService) *CheckInHandler {
	return &CheckInHandler{member: member}
}

// RegisterRoutes registers member routes on the given router
// The router should already have the /api/v1 prefix and auth middleware
func (h *CheckInHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/checkins", h.CreateCheckIn).Methods("POST")
	r.HandleFunc("/progress", h.GetProgress).Methods("GET")
}

type createCheckInRequest struct {
	Weight      float64 `json:"weight" validate:"required,gt=0"`
	EnergyLevel int     `json:"energy_level" validate:"required,min=1,max=10"`
	Notes       string  `json:"notes" validate:"omitempty,max=2000"`
}

// CreateCheckIn records a weekly check-in for the authenticated member
func (h *CheckInHandler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req createCheckInRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	notes := validation.SanitizeText(req.Notes)
	checkIn, err := h.member.SubmitCheckIn(r.Context(), user, req.Weight, req.EnergyLevel, notes)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, checkIn)
}

// GetProgress returns the member's progress chart points
func (h *CheckInHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	points, err := h.member.LoadProgress(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, points)
}
