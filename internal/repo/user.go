package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/google/uuid"
)

const userColumns = `id, username, email, password, confirm_password, profile_pic, created_at, updated_at`

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func scanUser(s rowScanner) (*models.User, error) {
	u := &models.User{}
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.ConfirmPassword,
		&u.ProfilePic, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, u models.User) (*models.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.ProfilePic == "" {
		u.ProfilePic = models.DefaultProfilePic
	}

	query := `
		INSERT INTO users (id, username, email, password, confirm_password, profile_pic)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	user, err := scanUser(r.DB.QueryRowContext(ctx, query,
		u.ID, u.Username, u.Email, u.Password, u.ConfirmPassword, u.ProfilePic))
	if err != nil {
		return nil, wrapErr("create user", err)
	}
	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapErr("get user by id", err)
	}
	return user, nil
}

// ==========================
// Get By Email
// ==========================
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrapErr("get user by email", err)
	}
	return user, nil
}

// ==========================
// Update User
// ==========================

// Update replaces every mutable column of the row identified by u.ID.
func (r *UserRepo) Update(ctx context.Context, u models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET username = $1, email = $2, password = $3, confirm_password = $4,
		    profile_pic = $5, updated_at = now()
		WHERE id = $6
		RETURNING ` + userColumns

	user, err := scanUser(r.DB.QueryRowContext(ctx, query,
		u.Username, u.Email, u.Password, u.ConfirmPassword, u.ProfilePic, u.ID))
	if err != nil {
		return nil, wrapErr("update user", err)
	}
	return user, nil
}

// ==========================
// Delete User
// ==========================
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete user", err)
	}
	return checkAffected("delete user", res)
}
