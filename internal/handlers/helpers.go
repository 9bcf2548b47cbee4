package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/embodywellness/member-api/internal/models"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sanitizeErrorMessage removes internal details from error messages
func sanitizeErrorMessage(message string) string {
	if len(message) > 200 {
		return message[:200] + "..."
	}
	return message
}

// respondJSONError sends an error JSON response with sanitized error messages
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizeErrorMessage(message),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondServiceError maps service-layer errors onto HTTP responses
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		respondJSONError(w, http.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, models.ErrAuthFailure):
		respondJSONError(w, http.StatusUnauthorized, "Authentication failed", err.Error())
	case errors.Is(err, models.ErrForbidden):
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Admin access required")
	case errors.Is(err, models.ErrProfileUnavailable):
		respondJSONError(w, http.StatusBadGateway, "Profile unavailable", "Unable to load account profile")
	case errors.Is(err, models.ErrWriteFailed):
		respondJSONError(w, http.StatusBadGateway, "Write failed", "Unable to save changes")
	default:
		respondJSONError(w, http.StatusInternalServerError, "Internal error", "Something went wrong")
	}
}

// decodeJSONBody decodes a request body into dst, rejecting unknown fields
func decodeJSONBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
