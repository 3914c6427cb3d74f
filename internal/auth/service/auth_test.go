package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "b8a3c2267dc85f855dea9b46b452bf20"

func signClaims(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}

func TestNewTokenGenerator(t *testing.T) {
	tg := NewTokenGenerator("test-secret-key", time.Hour, 7*24*time.Hour)

	assert.NotNil(t, tg)
	assert.Equal(t, "test-secret-key", tg.secret)
	assert.Equal(t, time.Hour, tg.accessTokenExpiry)
	assert.Equal(t, 7*24*time.Hour, tg.refreshTokenExpiry)
}

func TestTokenGenerator_GenerateTokens(t *testing.T) {
	tg := NewTokenGenerator(testSecret, time.Hour, 7*24*time.Hour)

	accessToken, refreshToken, err := tg.GenerateTokens(123, "STUDENT")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	userID, role, err := tg.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, 123, userID)
	assert.Equal(t, "STUDENT", role)

	refreshUserID, err := tg.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, 123, refreshUserID)
}

func TestTokenGenerator_ValidateAccessToken(t *testing.T) {
	tg := NewTokenGenerator(testSecret, time.Hour, 7*24*time.Hour)

	noneToken := func() string {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"user_id": 123,
			"role":    "ADMIN",
			"exp":     time.Now().Add(time.Hour).Unix(),
			"type":    "access",
		})
		s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name          string
		token         string
		errorContains string
	}{
		{name: "empty string token", token: ""},
		{name: "invalid token format", token: "invalid-token"},
		{name: "malformed JWT - missing parts", token: "header.payload"},
		{name: "wrong signature method - non-HMAC", token: noneToken(), errorContains: "unexpected signing method"},
		{
			name: "token without user_id claim",
			token: signClaims(t, testSecret, jwt.MapClaims{
				"role": "STUDENT", "exp": time.Now().Add(time.Hour).Unix(), "type": "access",
			}),
			errorContains: "user_id not found",
		},
		{
			name: "token without role claim",
			token: signClaims(t, testSecret, jwt.MapClaims{
				"user_id": 1, "exp": time.Now().Add(time.Hour).Unix(), "type": "access",
			}),
			errorContains: "role not found",
		},
		{
			name: "refresh token used as access token",
			token: signClaims(t, testSecret, jwt.MapClaims{
				"user_id": 1, "role": "STUDENT", "exp": time.Now().Add(time.Hour).Unix(), "type": "refresh",
			}),
			errorContains: "not an access token",
		},
		{
			name: "expired token",
			token: signClaims(t, testSecret, jwt.MapClaims{
				"user_id": 1, "role": "STUDENT", "exp": time.Now().Add(-time.Hour).Unix(), "type": "access",
			}),
		},
		{
			name: "wrong secret",
			token: signClaims(t, "wrong-secret", jwt.MapClaims{
				"user_id": 1, "role": "STUDENT", "exp": time.Now().Add(time.Hour).Unix(), "type": "access",
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, role, err := tg.ValidateAccessToken(tt.token)

			assert.Error(t, err)
			assert.Zero(t, userID)
			assert.Empty(t, role)
			if tt.errorContains != "" {
				assert.Contains(t, err.Error(), tt.errorContains)
			}
		})
	}
}

func TestTokenGenerator_ValidateRefreshToken(t *testing.T) {
	tg := NewTokenGenerator(testSecret, time.Hour, 7*24*time.Hour)

	t.Run("access token used as refresh token", func(t *testing.T) {
		accessToken, _, err := tg.GenerateTokens(789, "INSTRUCTOR")
		require.NoError(t, err)

		_, err = tg.ValidateRefreshToken(accessToken)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not a refresh token")
	})

	t.Run("refresh token without user_id", func(t *testing.T) {
		token := signClaims(t, testSecret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(), "type": "refresh",
		})

		_, err := tg.ValidateRefreshToken(token)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "user_id not found")
	})

	t.Run("expired refresh token", func(t *testing.T) {
		token := signClaims(t, testSecret, jwt.MapClaims{
			"user_id": 1, "exp": time.Now().Add(-time.Hour).Unix(), "type": "refresh",
		})

		_, err := tg.ValidateRefreshToken(token)
		assert.Error(t, err)
	})
}

func TestTokenGenerator_TokenClaims(t *testing.T) {
	accessExpiry := time.Hour
	tg := NewTokenGenerator(testSecret, accessExpiry, 7*24*time.Hour)

	beforeGeneration := time.Now().Unix()
	accessToken, _, err := tg.GenerateTokens(123, "ADMIN")
	require.NoError(t, err)
	afterGeneration := time.Now().Unix()

	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "ADMIN", claims["role"])
	assert.Equal(t, "access", claims["type"])

	iat, ok := claims["iat"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, int64(iat), beforeGeneration)
	assert.LessOrEqual(t, int64(iat), afterGeneration)

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.Equal(t, time.Unix(int64(iat), 0).Add(accessExpiry).Unix(), int64(exp))
}
