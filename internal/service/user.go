package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf16"

	"github.com/crucial707/blog-api/internal/logger"
	"github.com/crucial707/blog-api/internal/metrics"
	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 20
)

// RegisterInput is the body of POST /users/register.
type RegisterInput struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginInput is the body of POST /users/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserService enforces self-only access to user records and cascades user
// deletion to the user's posts.
type UserService struct {
	users    UserStore
	posts    PostStore
	tokens   TokenIssuer
	logger   *logger.Logger
	validate *validator.Validate

	// HashCost is the bcrypt cost used for new password hashes.
	HashCost int
}

func NewUserService(users UserStore, posts PostStore, tokens TokenIssuer, logger *logger.Logger) *UserService {
	return &UserService{
		users:    users,
		posts:    posts,
		tokens:   tokens,
		logger:   logger,
		validate: validator.New(),
		HashCost: bcrypt.DefaultCost,
	}
}

// Register creates a user and returns its public fields with a fresh token.
// A taken email is reported before any field validation.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.AuthResult, error) {
	if in.Email != "" {
		_, err := s.users.GetByEmail(ctx, in.Email)
		switch {
		case err == nil:
			s.logger.Info("User service: email already registered", "email", in.Email)
			return nil, newError(ErrConflict, "User already exists")
		case !errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("failed to look up email: %w", err)
		}
	}

	if err := s.validate.Struct(in); err != nil {
		return nil, newError(ErrValidation, "Username, email, password, and confirm password required")
	}
	if !validPasswordLen(in.Password) {
		return nil, newError(ErrValidation, "Password must be between 8 and 20 characters")
	}
	if in.Password != in.ConfirmPassword {
		return nil, newError(ErrValidation, "Password and confirm password must match")
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, models.User{
		Username:        in.Username,
		Email:           in.Email,
		Password:        hash,
		ConfirmPassword: hash,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, newError(ErrConflict, "User already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.IncUsersRegistered()
	s.logger.Info("User service: user registered", "user_id", user.ID, "username", user.Username)

	return s.authResult(user)
}

// Login checks email and password. Unknown emails and wrong passwords produce
// the same error so callers cannot tell which one failed.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.AuthResult, error) {
	invalid := newError(ErrAuthentication, "User not found, or invalid login")

	if in.Email == "" || in.Password == "" {
		metrics.IncLogins("failure")
		return nil, invalid
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			metrics.IncLogins("failure")
			return nil, invalid
		}
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		metrics.IncLogins("failure")
		s.logger.Debug("User service: password mismatch", "user_id", user.ID)
		return nil, invalid
	}

	metrics.IncLogins("success")
	return s.authResult(user)
}

// Get returns the caller's own record. targetID must be the caller's id.
func (s *UserService) Get(ctx context.Context, identity *models.User, targetID string) (*models.User, error) {
	if _, err := s.authorizeSelf(ctx, identity, targetID, "Logged in user can only get their own information"); err != nil {
		return nil, err
	}
	return identity, nil
}

// Update merges patch into the caller's record. A password change needs both
// password and confirmPassword; when either rule fails nothing is written.
func (s *UserService) Update(ctx context.Context, identity *models.User, targetID string, patch models.UserPatch) (*models.AuthResult, error) {
	existing, err := s.authorizeSelf(ctx, identity, targetID, "Logged in user can only update themself")
	if err != nil {
		return nil, err
	}

	updated := *existing

	password, confirm := deref(patch.Password), deref(patch.ConfirmPassword)
	switch {
	case password == "" && confirm == "":
	case password == "" || confirm == "":
		return nil, newError(ErrValidation, "Updated password and confirm password required")
	case !validPasswordLen(password):
		return nil, newError(ErrValidation, "Updated password must be between 8 and 20 characters")
	case password != confirm:
		return nil, newError(ErrValidation, "Updated password and confirm password must match")
	default:
		hash, err := s.hash(password)
		if err != nil {
			return nil, err
		}
		updated.Password = hash
		updated.ConfirmPassword = hash
	}

	if v := deref(patch.Username); v != "" {
		updated.Username = v
	}
	if v := deref(patch.Email); v != "" {
		updated.Email = v
	}
	if v := deref(patch.ProfilePic); v != "" {
		updated.ProfilePic = v
	}

	user, err := s.users.Update(ctx, updated)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, newError(ErrConflict, "Username or email already taken")
		case errors.Is(err, repo.ErrNotFound):
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User service: user updated", "user_id", user.ID)
	return s.authResult(user)
}

// Delete removes the caller's posts and then the caller. The two steps are not
// atomic: if the second fails the posts are already gone and the error says so.
func (s *UserService) Delete(ctx context.Context, identity *models.User, targetID string) error {
	existing, err := s.authorizeSelf(ctx, identity, targetID, "Logged in user can only delete themself")
	if err != nil {
		return err
	}

	n, err := s.posts.DeleteByUsername(ctx, existing.Username)
	if err != nil {
		return fmt.Errorf("failed to delete posts of %q: %w", existing.Username, err)
	}

	if err := s.users.Delete(ctx, existing.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(ErrNotFound, "User not found")
		}
		s.logger.Error("User service: posts deleted but user delete failed",
			"user_id", existing.ID,
			"posts_deleted", n,
			"error", err.Error())
		return fmt.Errorf("deleted %d posts but failed to delete user: %w", n, err)
	}

	s.logger.Info("User service: user deleted", "user_id", existing.ID, "posts_deleted", n)
	return nil
}

// authorizeSelf loads the target user and checks it is the caller.
// Missing identity is an authentication error, an unknown target is not
// found, and any other target is an authorization error.
func (s *UserService) authorizeSelf(ctx context.Context, identity *models.User, targetID, denied string) (*models.User, error) {
	if identity == nil {
		return nil, newError(ErrAuthentication, msgNotLoggedIn)
	}

	id, err := uuid.Parse(targetID)
	if err != nil {
		return nil, newError(ErrNotFound, "User not found")
	}

	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if target.ID != identity.ID {
		s.logger.Info("User service: access denied",
			"user_id", identity.ID,
			"target_id", target.ID)
		return nil, newError(ErrAuthorization, denied)
	}
	return target, nil
}

func (s *UserService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

func (s *UserService) authResult(u *models.User) (*models.AuthResult, error) {
	t, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.AuthResult{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		Token:      t,
	}, nil
}

// validPasswordLen counts UTF-16 code units, so a password within bounds is at
// most 60 bytes of UTF-8 and always fits bcrypt's 72-byte input limit.
func validPasswordLen(p string) bool {
	n := 0
	for _, r := range p {
		n += utf16.RuneLen(r)
	}
	return n >= minPasswordLen && n <= maxPasswordLen
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
