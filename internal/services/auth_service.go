package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coursehub/backend/internal/auth/service"
	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const emailTaken = "user with this email already exists"

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user.
	//
	// If the email is taken, an error wrapping models.ErrDuplicate is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by email.
	//
	// "email" parameter is used to retrieve a user by email.
	//
	// If user with such email does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// "userID" parameter is used to retrieve a user by ID.
	//
	// If user with such ID does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// "email" parameter is used to check if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method List retrieves all users ordered by ID.
	List(ctx context.Context) ([]models.User, error)
}

// authService implements registration, login and token refresh
type authService struct {
	userRepo       UserRepository
	tokenGenerator *service.TokenGenerator
	clock          Clock
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokenGenerator *service.TokenGenerator, clock Clock, logger *zap.Logger) *authService {
	return &authService{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		clock:          clock,
		logger:         logger,
	}
}

// Register creates a new user account and returns access and refresh tokens
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (string, string, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validation.Struct(req); err != nil {
		return "", "", err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return "", "", err
	}
	if exists {
		return "", "", models.NewValidationError("email", emailTaken)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := &models.User{
		Email:        req.Email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		FullName:     strings.TrimSpace(req.FullName),
		Bio:          req.Bio,
		PasswordHash: string(passwordHash),
		Role:         role,
		CreatedAt:    s.clock(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return "", "", models.NewValidationError("email", emailTaken)
		}
		return "", "", err
	}

	s.logger.Info("user registered", zap.Int("user_id", user.ID), zap.String("role", string(user.Role)))

	return s.tokenGenerator.GenerateTokens(user.ID, string(user.Role))
}

// Login authenticates a user by email and password
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, string, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validation.Struct(req); err != nil {
		return "", "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", "", models.ErrInvalidCredentials
		}
		return "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", "", models.ErrInvalidCredentials
	}

	return s.tokenGenerator.GenerateTokens(user.ID, string(user.Role))
}

// Refresh issues a new token pair for a valid refresh token.
// The role is read from the database, not from the old token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	userID, err := s.tokenGenerator.ValidateRefreshToken(strings.TrimSpace(refreshToken))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", models.ErrInvalidCredentials, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", "", models.ErrInvalidCredentials
		}
		return "", "", err
	}

	return s.tokenGenerator.GenerateTokens(user.ID, string(user.Role))
}
