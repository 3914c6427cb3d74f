package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/coursehub/backend/internal/auth/service"
	"github.com/coursehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestTokenGenerator() *service.TokenGenerator {
	return service.NewTokenGenerator("test-secret", time.Hour, 24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		req           *models.RegisterRequest
		repo          *mockUserRepository
		expectedRole  models.Role
		expectedError error
		expectedField string
	}{
		{
			name:         "defaults to student",
			req:          &models.RegisterRequest{Email: "  Grace@Example.com ", Password: "password123", FirstName: "Grace"},
			repo:         &mockUserRepository{},
			expectedRole: models.RoleStudent,
		},
		{
			name:         "instructor role",
			req:          &models.RegisterRequest{Email: "alan@example.com", Password: "password123", Role: models.RoleInstructor},
			repo:         &mockUserRepository{},
			expectedRole: models.RoleInstructor,
		},
		{
			name:          "unknown role",
			req:           &models.RegisterRequest{Email: "alan@example.com", Password: "password123", Role: "TEACHER"},
			repo:          &mockUserRepository{},
			expectedError: models.ErrValidation,
			expectedField: "role",
		},
		{
			name:          "short password",
			req:           &models.RegisterRequest{Email: "alan@example.com", Password: "short"},
			repo:          &mockUserRepository{},
			expectedError: models.ErrValidation,
			expectedField: "password",
		},
		{
			name:          "email taken",
			req:           &models.RegisterRequest{Email: "alan@example.com", Password: "password123"},
			repo:          &mockUserRepository{exists: true},
			expectedError: models.ErrValidation,
			expectedField: "email",
		},
		{
			name:          "email taken concurrently",
			req:           &models.RegisterRequest{Email: "alan@example.com", Password: "password123"},
			repo:          &mockUserRepository{createErr: fmt.Errorf("email taken: %w", models.ErrDuplicate)},
			expectedError: models.ErrValidation,
			expectedField: "email",
		},
		{
			name:          "lookup failure",
			req:           &models.RegisterRequest{Email: "alan@example.com", Password: "password123"},
			repo:          &mockUserRepository{existsErr: errors.New("connection refused")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := newTestTokenGenerator()
			svc := NewAuthService(tt.repo, tokens, fixedClock, zap.NewNop())

			access, refresh, err := svc.Register(context.Background(), tt.req)

			if tt.repo.existsErr != nil {
				assert.ErrorIs(t, err, tt.repo.existsErr)
				return
			}
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				var vErr *models.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Contains(t, vErr.Fields, tt.expectedField)
				assert.Empty(t, access)
				return
			}
			require.NoError(t, err)

			created := tt.repo.created
			require.NotNil(t, created)
			assert.Equal(t, tt.expectedRole, created.Role)
			assert.Equal(t, strings.ToLower(strings.TrimSpace(tt.req.Email)), created.Email)
			assert.Equal(t, fixedNow, created.CreatedAt)
			assert.NotEqual(t, tt.req.Password, created.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte(tt.req.Password)))

			userID, role, err := tokens.ValidateAccessToken(access)
			require.NoError(t, err)
			assert.Equal(t, 5, userID)
			assert.Equal(t, string(tt.expectedRole), role)

			refreshID, err := tokens.ValidateRefreshToken(refresh)
			require.NoError(t, err)
			assert.Equal(t, 5, refreshID)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: 7, Email: "grace@example.com", PasswordHash: string(hash), Role: models.RoleInstructor}

	tests := []struct {
		name          string
		req           *models.LoginRequest
		repo          *mockUserRepository
		expectedError error
	}{
		{name: "valid credentials", req: &models.LoginRequest{Email: "GRACE@example.com", Password: "password123"}, repo: &mockUserRepository{user: user}},
		{name: "wrong password", req: &models.LoginRequest{Email: "grace@example.com", Password: "password124"}, repo: &mockUserRepository{user: user}, expectedError: models.ErrInvalidCredentials},
		{name: "unknown email", req: &models.LoginRequest{Email: "nobody@example.com", Password: "password123"}, repo: &mockUserRepository{err: fmt.Errorf("user %w", models.ErrNotFound)}, expectedError: models.ErrInvalidCredentials},
		{name: "missing password", req: &models.LoginRequest{Email: "grace@example.com"}, repo: &mockUserRepository{user: user}, expectedError: models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := newTestTokenGenerator()
			svc := NewAuthService(tt.repo, tokens, fixedClock, zap.NewNop())

			access, _, err := svc.Login(context.Background(), tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			userID, role, err := tokens.ValidateAccessToken(access)
			require.NoError(t, err)
			assert.Equal(t, 7, userID)
			assert.Equal(t, string(models.RoleInstructor), role)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	tokens := newTestTokenGenerator()
	access, refresh, err := tokens.GenerateTokens(7, string(models.RoleStudent))
	require.NoError(t, err)

	tests := []struct {
		name          string
		token         string
		repo          *mockUserRepository
		expectedError error
		expectedRole  string
	}{
		{
			name:         "role reloaded from the database",
			token:        refresh,
			repo:         &mockUserRepository{user: &models.User{ID: 7, Role: models.RoleInstructor}},
			expectedRole: string(models.RoleInstructor),
		},
		{name: "access token rejected", token: access, repo: &mockUserRepository{}, expectedError: models.ErrInvalidCredentials},
		{name: "garbage token", token: "not-a-token", repo: &mockUserRepository{}, expectedError: models.ErrInvalidCredentials},
		{name: "deleted user", token: refresh, repo: &mockUserRepository{err: fmt.Errorf("user %w", models.ErrNotFound)}, expectedError: models.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(tt.repo, tokens, fixedClock, zap.NewNop())

			newAccess, newRefresh, err := svc.Refresh(context.Background(), tt.token)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, newRefresh)
			_, role, err := tokens.ValidateAccessToken(newAccess)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedRole, role)
		})
	}
}
