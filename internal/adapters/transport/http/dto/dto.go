package dto

import (
	"time"

	"github.com/campushq/account-service/internal/domain/account/model"
)

type RegisterDTO struct {
	Email     string `json:"email"      validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Password  string `json:"password"   validate:"required,strongpwd"`
}

type LoginDTO struct {
	Email    string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshDTO carries the refresh token in the request body: it is a
// long-lived secret and never travels in the authorization header.
type RefreshDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateProfileDTO struct {
	FirstName   *string `json:"first_name"  validate:"omitempty,max=100"`
	LastName    *string `json:"last_name"   validate:"omitempty,max=100"`
	Email       *string `json:"email"       validate:"omitempty,email"`
	Affiliation *string `json:"affiliation" validate:"omitempty,max=255"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,strongpwd"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AccountResponse is the external view of an account; the password hash and
// token version never leave the service.
type AccountResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Affiliation *string   `json:"affiliation"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewAccountResponse(a model.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID.String(),
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Affiliation: a.Affiliation,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
