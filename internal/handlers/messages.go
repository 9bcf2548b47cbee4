package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/embodywellness/member-api/internal/database"
	"github.com/embodywellness/member-api/internal/models"
	"github.com/embodywellness/member-api/internal/request"
	"github.com/embodywellness/member-api/internal/validation"
)

// MessageHandler handles coaching thread requests
type MessageHandler struct {
	messages database.MessageRepositoryInterface
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages database.MessageRepositoryInterface) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// RegisterRoutes registers message routes on the given router
// The router should already have the /api/v1 prefix and auth middleware
func (h *MessageHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/messages", h.ListMessages).Methods("GET")
	r.HandleFunc("/messages", h.SendMessage).Methods("POST")
}

type sendMessageRequest struct {
	Body      string `json:"message" validate:"required,max=4000"`
	ProfileID string `json:"profile_id" validate:"omitempty,uuid4"`
}

// threadFor resolves which member thread the request targets. Members only
// ever see their own thread; coaches may address any member's thread.
func threadFor(user *models.User, profileID string) (uuid.UUID, error) {
	if profileID == "" {
		return user.ID, nil
	}
	target, err := uuid.Parse(profileID)
	if err != nil {
		return uuid.Nil, models.NewValidationError("invalid profile id")
	}
	if target != user.ID && !user.IsAdmin {
		return uuid.Nil, models.ErrForbidden
	}
	return target, nil
}

// ListMessages returns the thread in chronological order
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	profileID, err := threadFor(user, r.URL.Query().Get("profile_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	messages, err := h.messages.ListByProfile(r.Context(), profileID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Failed to load messages", err.Error())
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}

	respondJSON(w, http.StatusOK, messages)
}

// SendMessage appends a message to a thread. Posts to another member's
// thread require the coach (admin) flag and are recorded as coach messages.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req sendMessageRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	profileID, err := threadFor(user, req.ProfileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	sender := models.SenderMember
	if profileID != user.ID {
		sender = models.SenderCoach
	}

	message := &models.Message{
		ID:        uuid.New(),
		ProfileID: profileID,
		Sender:    sender,
		Body:      validation.SanitizeText(req.Body),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.messages.Create(r.Context(), message); err != nil {
		respondServiceError(w, models.ErrWriteFailed)
		return
	}

	respondJSON(w, http.StatusCreated, message)
}
