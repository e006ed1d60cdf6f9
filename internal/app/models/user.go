package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                 int64     `json:"id" db:"id"`
	FullName           string    `json:"fullName" db:"full_name"`
	Email              string    `json:"email" db:"email"`
	Mobile             string    `json:"mobile" db:"mobile"`
	RegistrationNumber string    `json:"registrationNumber" db:"registration_number"`
	Password           string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Role               RoleType  `json:"role" db:"role"`
	IsVerified         bool      `json:"isVerified" db:"is_verified"`
	IsActive           bool      `json:"isActive" db:"is_active"`
	AvatarURL          string    `json:"avatarUrl" db:"avatar_url"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

// UserSummary carries the public fields attached to other resources
// when a related user is populated into a response.
type UserSummary struct {
	ID                 int64    `json:"id"`
	FullName           string   `json:"fullName"`
	Email              string   `json:"email,omitempty"`
	RegistrationNumber string   `json:"registrationNumber,omitempty"`
	Role               RoleType `json:"role,omitempty"`
	AvatarURL          string   `json:"avatarUrl,omitempty"`
}

// Summary returns the populated view of the user
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:                 u.ID,
		FullName:           u.FullName,
		Email:              u.Email,
		RegistrationNumber: u.RegistrationNumber,
		Role:               u.Role,
		AvatarURL:          u.AvatarURL,
	}
}
