package auth

import (
	"github.com/stockmasterhq/stockmaster-backend/internal/users"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
)

// RegisterRequest captures the payload for onboarding a new account.
type RegisterRequest struct {
	FirstName string          `json:"first_name" validate:"required"`
	LastName  string          `json:"last_name" validate:"required"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8"`
	Role      *enums.UserRole `json:"role,omitempty"`
}

// RegisterResponse tells the caller where the verification code was sent.
type RegisterResponse struct {
	User *users.UserDTO `json:"user"`
}

// VerifyRequest carries the one-time code submitted to confirm an email.
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// UpdateProfileRequest carries optional profile mutations.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token and user produced by a successful login.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
