package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/crucial707/blog-api/internal/logger"
	"github.com/crucial707/blog-api/internal/metrics"
	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreatePostInput is the body of POST /posts. Any username in the body is
// ignored; authorship comes from the caller's identity.
type CreatePostInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Photo       string `json:"photo"`
	Categories  string `json:"categories"`
}

// PostService enforces ownership on post writes.
type PostService struct {
	posts    PostStore
	logger   *logger.Logger
	validate *validator.Validate

	// EmptyListNotFound makes List report an empty result as ErrNotFound
	// instead of returning an empty slice.
	EmptyListNotFound bool
}

func NewPostService(posts PostStore, logger *logger.Logger) *PostService {
	return &PostService{
		posts:             posts,
		logger:            logger,
		validate:          validator.New(),
		EmptyListNotFound: true,
	}
}

func (s *PostService) Create(ctx context.Context, identity *models.User, in CreatePostInput) (*models.Post, error) {
	if identity == nil {
		return nil, newError(ErrAuthentication, msgNotLoggedIn)
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, newError(ErrValidation, "Title and description required")
	}

	post, err := s.posts.Create(ctx, models.Post{
		Title:       in.Title,
		Description: in.Description,
		Username:    identity.Username,
		Photo:       in.Photo,
		Categories:  SplitCategories(in.Categories),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	metrics.IncPosts("create")
	s.logger.Info("Post service: post created", "post_id", post.ID, "username", post.Username)
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, newError(ErrNotFound, "Post not found")
	}
	post, err := s.posts.GetByID(ctx, pid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrNotFound, "Post not found")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// List returns posts matching f in creation order.
func (s *PostService) List(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	posts, err := s.posts.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if len(posts) == 0 {
		if s.EmptyListNotFound {
			return nil, newError(ErrNotFound, "Posts not found")
		}
		return []models.Post{}, nil
	}
	return posts, nil
}

// Update merges the non-empty fields of patch into the caller's post.
// The username field is merged like any other.
func (s *PostService) Update(ctx context.Context, identity *models.User, id string, patch models.PostPatch) (*models.Post, error) {
	existing, err := s.authorizeOwner(ctx, identity, id, "Only the user that created this post can update it")
	if err != nil {
		return nil, err
	}

	updated := *existing
	if v := deref(patch.Title); v != "" {
		updated.Title = v
	}
	if v := deref(patch.Description); v != "" {
		updated.Description = v
	}
	if v := deref(patch.Username); v != "" {
		updated.Username = v
	}
	if v := deref(patch.Photo); v != "" {
		updated.Photo = v
	}
	if patch.Categories != nil {
		updated.Categories = SplitCategories(*patch.Categories)
	}

	post, err := s.posts.Update(ctx, updated)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrNotFound, "Post not found")
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	metrics.IncPosts("update")
	s.logger.Info("Post service: post updated", "post_id", post.ID)
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, identity *models.User, id string) (*models.Post, error) {
	existing, err := s.authorizeOwner(ctx, identity, id, "Only the user that created this post can delete it")
	if err != nil {
		return nil, err
	}

	if err := s.posts.Delete(ctx, existing.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrNotFound, "Post not found")
		}
		return nil, fmt.Errorf("failed to delete post: %w", err)
	}

	metrics.IncPosts("delete")
	s.logger.Info("Post service: post deleted", "post_id", existing.ID)
	return existing, nil
}

// authorizeOwner loads the post and checks the caller authored it.
func (s *PostService) authorizeOwner(ctx context.Context, identity *models.User, id, denied string) (*models.Post, error) {
	if identity == nil {
		return nil, newError(ErrAuthentication, msgNotLoggedIn)
	}
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Username != identity.Username {
		s.logger.Info("Post service: access denied",
			"post_id", post.ID,
			"owner", post.Username,
			"username", identity.Username)
		return nil, newError(ErrAuthorization, denied)
	}
	return post, nil
}
