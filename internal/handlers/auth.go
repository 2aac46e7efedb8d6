package handlers

import (
	"net/http"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/crucial707/blog-api/internal/service"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users     *service.UserService
	AuditRepo *repo.AuditRepo
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	res, err := h.Users.Register(r.Context(), input)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), res.ID, models.ActionCreate, models.ResourceUser, res.ID, "")
	}

	writeJSON(w, http.StatusCreated, res)
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	res, err := h.Users.Login(r.Context(), input)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}
