package service

import (
	"context"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/google/uuid"
)

// UserStore is the credential store. Implementations must enforce unique
// usernames and emails and report violations as repo.ErrDuplicate, and report
// missing rows as repo.ErrNotFound.
type UserStore interface {
	Create(ctx context.Context, u models.User) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u models.User) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostStore is the content store.
type PostStore interface {
	Create(ctx context.Context, p models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, f models.PostFilter) ([]models.Post, error)
	Update(ctx context.Context, p models.Post) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUsername(ctx context.Context, username string) (int64, error)
}

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	Generate(userID uuid.UUID) (string, error)
}
