package dto

import "github.com/campushub/backend/internal/app/models"

// RegisterRequest represents the registration form fields. The avatar file
// arrives alongside these in the same multipart request.
type RegisterRequest struct {
	FullName           string `form:"fullName" binding:"required,min=2,max=50"`
	Email              string `form:"email" binding:"required,email"`
	Password           string `form:"password" binding:"required,min=8,max=100"`
	Mobile             string `form:"mobile" binding:"required,len=10"`
	RegistrationNumber string `form:"registrationNumber" binding:"required,min=5"`
	Role               string `form:"role" binding:"omitempty,oneof=student faculty admin"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the authenticated user and the issued token.
// The token is also set as an httpOnly cookie.
type LoginResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int          `json:"expiresIn"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required,max=100"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=100"`
}

// UpdateDetailsRequest represents a partial profile update; only the fields
// present are applied, and changed unique fields are re-checked.
type UpdateDetailsRequest struct {
	FullName           *string `json:"fullName" binding:"omitempty,min=2,max=50"`
	Email              *string `json:"email" binding:"omitempty,email"`
	Mobile             *string `json:"mobile" binding:"omitempty,min=10,max=15"`
	RegistrationNumber *string `json:"registrationNumber" binding:"omitempty,min=5"`
}

// VerifyUserRequest identifies the verification target by email
type VerifyUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// DeactivateUserRequest identifies the account to soft-disable
type DeactivateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UserListQuery holds filters for user listings
type UserListQuery struct {
	Role   string `form:"role"`
	Search string `form:"search"`
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
}

// UserListResponse is a page of users with the total match count
type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
	Pages int            `json:"pages"`
}

// DashboardStats summarizes activity for the admin dashboard
type DashboardStats struct {
	VerifiedStudents int64 `json:"verifiedStudents"`
	VerifiedFaculty  int64 `json:"verifiedFaculty"`
	OpenIssues       int64 `json:"openIssues"`
	InProgressIssues int64 `json:"inProgressIssues"`
	PinnedNotices    int64 `json:"pinnedNotices"`
}
