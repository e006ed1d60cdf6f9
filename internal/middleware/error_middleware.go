package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/pkg/apperrors"
	"github.com/campushub/backend/internal/pkg/logger"
)

// statusFor maps an application error to its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrAccountDisabled),
		errors.Is(err, apperrors.ErrAccountNotVerified):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrNoticeNotFound),
		errors.Is(err, apperrors.ErrIssueNotFound),
		errors.Is(err, apperrors.ErrFacultyNotFound),
		errors.Is(err, apperrors.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrMobileAlreadyExists),
		errors.Is(err, apperrors.ErrRegistrationNumberExists):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrUserAlreadyVerified),
		errors.Is(err, apperrors.ErrPasswordIncorrect),
		errors.Is(err, apperrors.ErrPasswordReused),
		errors.Is(err, apperrors.ErrItemClaimed),
		errors.Is(err, apperrors.ErrItemNotClaimable),
		errors.Is(err, apperrors.ErrSelfClaim):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUploadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandleAPIError writes the error envelope for an application error. Internal
// errors are logged and hidden behind a generic message.
func HandleAPIError(c *gin.Context, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		message = "internal server error"
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(status, message))
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

// HandleValidationError writes a 400 envelope for request binding failures.
func HandleValidationError(c *gin.Context, err error) {
	message := err.Error()

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		parts := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			parts = append(parts, formatValidationError(fieldError))
		}
		message = strings.Join(parts, "; ")
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, message))
}
