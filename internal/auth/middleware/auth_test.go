package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coursehub/backend/internal/auth/service"
	"github.com/coursehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	tg := service.NewTokenGenerator("test-secret", time.Hour, 24*time.Hour)
	accessToken, refreshToken, err := tg.GenerateTokens(42, "INSTRUCTOR")
	require.NoError(t, err)

	tests := []struct {
		name           string
		setupRequest   func(r *http.Request)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "bearer header",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+accessToken)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "cookie",
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: accessToken})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing token",
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"authentication required"}`,
		},
		{
			name: "malformed header",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Token "+accessToken)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"authentication required"}`,
		},
		{
			name: "refresh token rejected",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+refreshToken)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"invalid or expired token"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var principal models.Principal
			var found bool
			handler := AuthMiddleware(tg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				principal, found = GetPrincipal(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setupRequest(req)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.True(t, found)
				assert.Equal(t, models.Principal{UserID: 42, Role: models.RoleInstructor}, principal)
			} else {
				assert.False(t, found)
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
