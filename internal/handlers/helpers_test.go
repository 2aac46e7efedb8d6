package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/crucial707/blog-api/internal/logger"
	"github.com/crucial707/blog-api/internal/middleware"
	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/crucial707/blog-api/internal/service"
	"github.com/crucial707/blog-api/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	userCols = []string{"id", "username", "email", "password", "confirm_password", "profile_pic", "created_at", "updated_at"}
	postCols = []string{"id", "title", "description", "username", "photo", "categories", "created_at", "updated_at"}
)

// requestWithChiURLParams returns a request with chi route context and URL params set.
func requestWithChiURLParams(method, path string, body []byte, params map[string]string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	return r
}

// asUser marks r as authenticated by u, the way middleware.Authenticate does.
func asUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), u))
}

func newUserService(db *sql.DB) *service.UserService {
	svc := service.NewUserService(repo.NewUserRepo(db), repo.NewPostRepo(db),
		token.NewJWT([]byte("test-secret"), time.Hour), logger.Nop())
	svc.HashCost = bcrypt.MinCost
	return svc
}

func newPostService(db *sql.DB) *service.PostService {
	return service.NewPostService(repo.NewPostRepo(db), logger.Nop())
}

func testUser(username, email string) *models.User {
	now := time.Now()
	return &models.User{
		ID: uuid.New(), Username: username, Email: email,
		Password: "hash", ConfirmPassword: "hash",
		ProfilePic: models.DefaultProfilePic, CreatedAt: now, UpdatedAt: now,
	}
}

func userRow(u *models.User) []driver.Value {
	return []driver.Value{u.ID.String(), u.Username, u.Email, u.Password, u.ConfirmPassword, u.ProfilePic, u.CreatedAt, u.UpdatedAt}
}
