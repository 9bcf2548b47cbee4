package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/embodywellness/member-api/internal/auth"
	"github.com/embodywellness/member-api/internal/request"
	"github.com/embodywellness/member-api/internal/services/identity"
	"github.com/embodywellness/member-api/internal/validation"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	orchestrator *auth.Orchestrator
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(orchestrator *auth.Orchestrator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{orchestrator: orchestrator, logger: logger}
}

// RegisterRoutes registers auth routes on the given router
// The router should already have the /api/v1/auth prefix; authMW guards
// the routes that need an authenticated caller
func (h *AuthHandler) RegisterRoutes(r *mux.Router, authMW mux.MiddlewareFunc) {
	r.HandleFunc("/signup", h.SignUp).Methods("POST")
	r.HandleFunc("/signin", h.SignIn).Methods("POST")
	r.HandleFunc("/signout", h.SignOut).Methods("POST")
	r.Handle("/me", authMW(http.HandlerFunc(h.GetMe))).Methods("GET")
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresAt    string `json:"expires_at,omitempty"`
}

func sessionToPayload(session *identity.Session) sessionPayload {
	payload := sessionPayload{
		AccessToken:  session.Token.AccessToken,
		RefreshToken: session.Token.RefreshToken,
		TokenType:    session.Token.TokenType,
	}
	if payload.TokenType == "" {
		payload.TokenType = "bearer"
	}
	if !session.Token.Expiry.IsZero() {
		payload.ExpiresAt = session.Token.Expiry.UTC().Format(time.RFC3339)
	}
	return payload
}

// SignUp creates a new account and returns the resolved user with a session
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	name := validation.SanitizeText(req.Name)
	user, session, err := h.orchestrator.SignUp(r.Context(), req.Email, req.Password, name)
	if err != nil {
		h.logger.Warn("sign_up_rejected", zap.String("email", req.Email), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"user":    user,
		"session": sessionToPayload(session),
	})
}

// SignIn authenticates an existing account and returns a session
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	session, err := h.orchestrator.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("sign_in_rejected", zap.String("email", req.Email), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"session": sessionToPayload(session),
	})
}

// SignOut ends the current session. Always succeeds from the caller's
// point of view.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.orchestrator.SignOut(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{"signed_out": true})
}

// GetMe returns the authenticated user's profile
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
