package models

import (
	"time"

	"github.com/google/uuid"
)

// User defines the user model based on the 'users' table. Accounts are keyed by
// phone number; the synthetic login email is derived from it by the auth service.
type User struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Phone            string    `json:"phone" db:"phone" example:"5551234567"`
	Email            string    `json:"-" db:"email"`    // synthetic, derived from phone
	Password         string    `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	Name             string    `json:"name" db:"name" example:"Ayşe Demir"`
	StudentClass     string    `json:"studentClass" db:"student_class" example:"9-A"`
	IsContactPrivate bool      `json:"isContactPrivate" db:"is_contact_private"`
	Role             RoleType  `json:"role" db:"role_type" example:"STUDENT"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

// IsAdmin reports whether the user carries the admin role claim
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
