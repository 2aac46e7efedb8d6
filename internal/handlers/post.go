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
// PostHandler
// ==========================
type PostHandler struct {
	Posts     *service.PostService
	AuditRepo *repo.AuditRepo
}

// ==========================
// Create Post
// ==========================
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var input service.CreatePostInput
	if !decodeJSON(w, r, &input) {
		return
	}

	identity := middleware.UserFromContext(r.Context())
	post, err := h.Posts.Create(r.Context(), identity, input)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	h.audit(r, identity, models.ActionCreate, post)
	writeJSON(w, http.StatusCreated, post)
}

// ==========================
// Get Post
// ==========================
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.Posts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// ==========================
// List Posts (?user= or ?category=)
// ==========================
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	posts, err := h.Posts.List(r.Context(), models.PostFilter{
		Username: q.Get("user"),
		Category: q.Get("category"),
	})
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// ==========================
// Update Post
// ==========================
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var patch models.PostPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	identity := middleware.UserFromContext(r.Context())
	post, err := h.Posts.Update(r.Context(), identity, chi.URLParam(r, "id"), patch)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	h.audit(r, identity, models.ActionUpdate, post)
	writeJSON(w, http.StatusCreated, post)
}

// ==========================
// Delete Post
// ==========================
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	identity := middleware.UserFromContext(r.Context())
	post, err := h.Posts.Delete(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	h.audit(r, identity, models.ActionDelete, post)
	JSONMessage(w, "Deleted post", http.StatusOK)
}

func (h *PostHandler) audit(r *http.Request, identity *models.User, action string, p *models.Post) {
	if h.AuditRepo == nil || identity == nil {
		return
	}
	_ = h.AuditRepo.Log(r.Context(), identity.ID, action, models.ResourcePost, p.ID, p.Title)
}
