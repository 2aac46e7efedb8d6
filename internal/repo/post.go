package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const postColumns = `id, title, description, username, photo, categories, created_at, updated_at`

// ========================
// REPOSITORY STRUCT
// ========================

type PostRepo struct {
	DB *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{DB: db}
}

func scanPost(s rowScanner) (*models.Post, error) {
	p := &models.Post{}
	var categories pq.StringArray
	err := s.Scan(&p.ID, &p.Title, &p.Description, &p.Username, &p.Photo,
		&categories, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Categories = []string(categories)
	return p, nil
}

// ========================
// CREATE POST
// ========================

func (r *PostRepo) Create(ctx context.Context, p models.Post) (*models.Post, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Photo == "" {
		p.Photo = models.DefaultPhoto
	}

	query := `
		INSERT INTO posts (id, title, description, username, photo, categories)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + postColumns

	post, err := scanPost(r.DB.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Description, p.Username, p.Photo, pq.Array(p.Categories)))
	if err != nil {
		return nil, wrapErr("create post", err)
	}
	return post, nil
}

// ========================
// GET POST BY ID
// ========================

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapErr("get post by id", err)
	}
	return post, nil
}

// ========================
// LIST POSTS
// ========================

// List returns posts in creation order. A username filter wins over a
// category filter; with neither set every post is returned.
func (r *PostRepo) List(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	var args []any
	switch {
	case f.Username != "":
		query += ` WHERE username = $1`
		args = append(args, f.Username)
	case f.Category != "":
		query += ` WHERE $1 = ANY(categories)`
		args = append(args, f.Category)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list posts", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, wrapErr("scan post", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list posts", err)
	}
	return posts, nil
}

// ========================
// UPDATE POST BY ID
// ========================

// Update replaces every mutable column of the row identified by p.ID.
func (r *PostRepo) Update(ctx context.Context, p models.Post) (*models.Post, error) {
	query := `
		UPDATE posts
		SET title = $1, description = $2, username = $3, photo = $4,
		    categories = $5, updated_at = now()
		WHERE id = $6
		RETURNING ` + postColumns

	post, err := scanPost(r.DB.QueryRowContext(ctx, query,
		p.Title, p.Description, p.Username, p.Photo, pq.Array(p.Categories), p.ID))
	if err != nil {
		return nil, wrapErr("update post", err)
	}
	return post, nil
}

// ========================
// DELETE POST BY ID
// ========================

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete post", err)
	}
	return checkAffected("delete post", res)
}

// ========================
// DELETE POSTS BY AUTHOR
// ========================

// DeleteByUsername removes every post authored by username and reports how many went.
func (r *PostRepo) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE username = $1`, username)
	if err != nil {
		return 0, wrapErr("delete posts by username", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapErr("delete posts by username", err)
	}
	return n, nil
}
