package dto

import (
	"time"

	"github.com/deniz/bookbridge/internal/app/models"
)

// RegisterRequest represents the registration payload. Accounts are keyed by
// phone number; the synthetic login email is derived server-side.
type RegisterRequest struct {
	Phone        string `json:"phone" binding:"required" example:"5551234567"`
	Password     string `json:"password" binding:"required,min=8"`
	Name         string `json:"name" binding:"required" example:"Ayşe Demir"`
	StudentClass string `json:"studentClass" binding:"required" example:"9-A"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents a successful authentication
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType" example:"Bearer"`
	ExpiresIn   int          `json:"expiresIn" example:"3600"`
	User        UserResponse `json:"user"`
}

// UserResponse represents public user profile information
type UserResponse struct {
	ID               string    `json:"id"`
	Phone            string    `json:"phone"`
	Name             string    `json:"name"`
	StudentClass     string    `json:"studentClass"`
	IsContactPrivate bool      `json:"isContactPrivate"`
	Role             string    `json:"role" example:"STUDENT"`
	CreatedAt        time.Time `json:"createdAt"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:               user.ID.String(),
		Phone:            user.Phone,
		Name:             user.Name,
		StudentClass:     user.StudentClass,
		IsContactPrivate: user.IsContactPrivate,
		Role:             string(user.Role),
		CreatedAt:        user.CreatedAt,
	}
}
