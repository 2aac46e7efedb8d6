package handlers

import (
	"net/http"

	"github.com/crucial707/blog-api/internal/middleware"
	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/crucial707/blog-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// AuditHandler serves a user's own activity log.
type AuditHandler struct {
	Users *service.UserService
	Repo  *repo.AuditRepo
}

// ListActivity returns the caller's audit entries, newest first.
func (h *AuditHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	entries, err := h.Repo.ListByUser(r.Context(), user.ID)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}
