package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/embodywellness/member-api/internal/content"
)

// BlogHandler serves the static blog library
type BlogHandler struct {
	library *content.Library
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(library *content.Library) *BlogHandler {
	return &BlogHandler{library: library}
}

// RegisterRoutes registers blog routes on the given router
// The router should already have the /api/v1/blog prefix
func (h *BlogHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListPosts).Methods("GET")
	r.HandleFunc("/{id}", h.GetPost).Methods("GET")
}

// ListPosts returns all posts in publication order
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.library.Posts())
}

// GetPost returns a single post by slug
func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	post, ok := h.library.Post(id)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not found", "No such post")
		return
	}

	respondJSON(w, http.StatusOK, post)
}
