package handlers

import (
	"net/http"

	"github.com/crucial707/blog-api/internal/middleware"
	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/crucial707/blog-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Users     *service.UserService
	AuditRepo *repo.AuditRepo
}

// ==========================
// Get User
// ==========================
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ==========================
// Update User
// ==========================
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	res, err := h.Users.Update(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	if h.AuditRepo != nil {
		details := ""
		if patch.Password != nil && *patch.Password != "" {
			details = "password changed"
		}
		_ = h.AuditRepo.Log(r.Context(), res.ID, models.ActionUpdate, models.ResourceUser, res.ID, details)
	}

	writeJSON(w, http.StatusCreated, res)
}

// ==========================
// Delete User (and their posts)
// ==========================
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity := middleware.UserFromContext(r.Context())
	if err := h.Users.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		WriteServiceError(w, r, err)
		return
	}

	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), identity.ID, models.ActionDelete, models.ResourceUser, identity.ID, "")
	}

	JSONMessage(w, "Deleted user and their posts", http.StatusOK)
}
