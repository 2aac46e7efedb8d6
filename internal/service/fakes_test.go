package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/google/uuid"
)

// memUsers and memPosts mirror the Postgres repos closely enough for the
// access rules: unique username/email, ErrNotFound on missing rows, and
// creation-ordered listing.

type memUsers struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]models.User
	failDel error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[uuid.UUID]models.User{}}
}

func (m *memUsers) Create(_ context.Context, u models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email || existing.Username == u.Username {
			return nil, repo.ErrDuplicate
		}
	}
	u.ID = uuid.New()
	if u.ProfilePic == "" {
		u.ProfilePic = models.DefaultProfilePic
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.byID[u.ID] = u
	return &u, nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) Update(_ context.Context, u models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return nil, repo.ErrNotFound
	}
	for id, existing := range m.byID {
		if id != u.ID && (existing.Email == u.Email || existing.Username == u.Username) {
			return nil, repo.ErrDuplicate
		}
	}
	u.UpdatedAt = time.Now()
	m.byID[u.ID] = u
	return &u, nil
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDel != nil {
		return m.failDel
	}
	if _, ok := m.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memPosts struct {
	mu    sync.Mutex
	posts []models.Post
}

func (m *memPosts) Create(_ context.Context, p models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	if p.Photo == "" {
		p.Photo = models.DefaultPhoto
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.posts = append(m.posts, p)
	return &p, nil
}

func (m *memPosts) GetByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memPosts) List(_ context.Context, f models.PostFilter) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Post
	for _, p := range m.posts {
		switch {
		case f.Username != "":
			if p.Username != f.Username {
				continue
			}
		case f.Category != "":
			if !slices.Contains(p.Categories, f.Category) {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memPosts) Update(_ context.Context, p models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.posts {
		if m.posts[i].ID == p.ID {
			p.UpdatedAt = time.Now()
			m.posts[i] = p
			return &p, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memPosts) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.posts {
		if m.posts[i].ID == id {
			m.posts = slices.Delete(m.posts, i, i+1)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memPosts) DeleteByUsername(_ context.Context, username string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.posts)
	m.posts = slices.DeleteFunc(m.posts, func(p models.Post) bool { return p.Username == username })
	return int64(before - len(m.posts)), nil
}

type stubTokens struct {
	err error
}

func (s stubTokens) Generate(id uuid.UUID) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + id.String(), nil
}

var errStore = errors.New("store unavailable")

func ptr(s string) *string { return &s }
