package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/google/uuid"
)

type key string

const userKey key = "user"

// TokenParser verifies a bearer token and returns the user id it was issued for.
type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// UserLookup loads the user a token refers to.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticate resolves the Bearer token into the current user. Requests
// without a valid token for an existing user get 401 and never reach next.
func Authenticate(tokens TokenParser, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenStr == "" {
				unauthorized(w, "Not authorized, no token")
				return
			}

			userID, err := tokens.Parse(tokenStr)
			if err != nil {
				slog.Debug("token rejected", "path", r.URL.Path, "error", err.Error())
				unauthorized(w, "Not authorized, token failed")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				slog.Debug("token user lookup failed", "user_id", userID, "error", err.Error())
				unauthorized(w, "Not authorized, token failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying u as the authenticated user.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, or nil outside Authenticate.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusUnauthorized, msg)
}
