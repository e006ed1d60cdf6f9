package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrAccountNotVerified = errors.New("account is not verified")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Upstream errors
	ErrUploadFailed = errors.New("file upload failed")
)

// User errors
var (
	ErrUserNotFound             = errors.New("user not found")
	ErrEmailAlreadyExists       = errors.New("email already exists")
	ErrMobileAlreadyExists      = errors.New("mobile number already exists")
	ErrRegistrationNumberExists = errors.New("registration number already exists")
	ErrUserAlreadyVerified      = errors.New("user already verified")
	ErrPasswordIncorrect        = errors.New("current password is incorrect")
	ErrPasswordReused           = errors.New("new password cannot be the same as the old password")
)

// Notice errors
var (
	ErrNoticeNotFound = errors.New("notice not found")
)

// Issue errors
var (
	ErrIssueNotFound   = errors.New("issue not found")
	ErrFacultyNotFound = errors.New("faculty member not found")
)

// Lost & found errors
var (
	ErrItemNotFound     = errors.New("item not found")
	ErrItemNotClaimable = errors.New("item cannot be claimed")
	ErrItemClaimed      = errors.New("item already claimed")
	ErrSelfClaim        = errors.New("cannot claim your own post")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a not-found error with a message
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a conflict error with a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewForbiddenError creates a permission-denied error with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewBadRequestError creates a bad-request error with a message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}
