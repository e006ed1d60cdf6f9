package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campushub/backend/internal/pkg/apperrors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"disabled account", apperrors.ErrAccountDisabled, http.StatusForbidden},
		{"unverified account", apperrors.ErrAccountNotVerified, http.StatusForbidden},
		{"notice not found", apperrors.ErrNoticeNotFound, http.StatusNotFound},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusConflict},
		// A lost claim race is a bad request, not a conflict.
		{"item already claimed", apperrors.ErrItemClaimed, http.StatusBadRequest},
		{"item not claimable", apperrors.ErrItemNotClaimable, http.StatusBadRequest},
		{"self claim", apperrors.ErrSelfClaim, http.StatusBadRequest},
		{"upload failure", apperrors.ErrUploadFailed, http.StatusBadGateway},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestStatusFor_WrappedCustomError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(apperrors.NewBadRequestError("bad input")))
	assert.Equal(t, http.StatusForbidden, statusFor(apperrors.NewForbiddenError("nope")))
	assert.Equal(t, http.StatusConflict, statusFor(apperrors.NewConflictError("taken")))
}
