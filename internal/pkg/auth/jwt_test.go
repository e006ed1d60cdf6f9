package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/backend/internal/app/models"
)

func testUser() *models.User {
	return &models.User{
		ID:                 42,
		Email:              "jane@campus.edu",
		Role:               models.RoleStudent,
		RegistrationNumber: "REG-2024-001",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewJWTService(JWTConfig{
		SecretKey:      "unit-test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "campushub.test",
	})

	token, expiresIn, err := service.GenerateToken(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 3600, expiresIn)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jane@campus.edu", claims.Email)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "REG-2024-001", claims.RegistrationNumber)
	assert.Equal(t, "campushub.test", claims.Issuer)
}

func TestValidateToken_Expired(t *testing.T) {
	service := NewJWTService(JWTConfig{
		SecretKey:      "unit-test-secret",
		AccessTokenExp: -time.Minute,
		TokenIssuer:    "campushub.test",
	})

	token, _, err := service.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService(JWTConfig{
		SecretKey:      "secret-a",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "campushub.test",
	})
	verifier := NewJWTService(JWTConfig{
		SecretKey:      "secret-b",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "campushub.test",
	})

	token, _, err := issuer.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	service := NewJWTService(JWTConfig{
		SecretKey:      "unit-test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "campushub.test",
	})

	_, err := service.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	// A bare token is accepted as-is.
	token, err = ExtractBearerToken("abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
