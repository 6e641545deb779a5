package services

import (
	"testing"

	"kirayo/config"
	"kirayo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService(expiryHours int) *TokenService {
	return NewTokenService(config.Config{
		JWTSecret:      "test-secret",
		JWTExpiryHours: expiryHours,
	})
}

func TestTokenService_GenerateAndVerify(t *testing.T) {
	service := testTokenService(24)
	user := &models.User{
		BaseModel: models.BaseModel{ID: 7},
		Role:      models.RoleOwner,
	}

	token, err := service.Generate(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, models.RoleOwner, claims.Role)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestTokenService_Verify_InvalidToken(t *testing.T) {
	service := testTokenService(24)

	tests := []struct {
		name  string
		token string
	}{
		{name: "Garbage string", token: "not-a-token"},
		{name: "Empty string", token: ""},
		{name: "Tampered signature", token: func() string {
			token, _ := service.Generate(&models.User{BaseModel: models.BaseModel{ID: 1}})
			return token + "xx"
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	issuer := testTokenService(24)
	verifier := NewTokenService(config.Config{JWTSecret: "other-secret", JWTExpiryHours: 24})

	token, err := issuer.Generate(&models.User{BaseModel: models.BaseModel{ID: 3}})
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestTokenService_Verify_Expired(t *testing.T) {
	service := testTokenService(-1)

	token, err := service.Generate(&models.User{BaseModel: models.BaseModel{ID: 5}})
	require.NoError(t, err)

	claims, err := service.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}
