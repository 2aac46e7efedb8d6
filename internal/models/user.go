package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultProfilePic is stored when a user registers without a picture.
const DefaultProfilePic = "default-profile.jpg"

type User struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	ProfilePic string    `json:"profilePic"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// ConfirmPassword holds a second copy of the password hash. Legacy column, never returned.
	ConfirmPassword string `json:"-"`
}

// UserPatch lists the user fields a PUT may change. Nil means "not supplied".
type UserPatch struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	ConfirmPassword *string `json:"confirmPassword"`
	ProfilePic      *string `json:"profilePic"`
}

// AuthResult is the register/login/update response body.
type AuthResult struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profilePic"`
	Token      string    `json:"token"`
}
