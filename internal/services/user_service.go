package services

import (
	"context"
	"fmt"

	"github.com/coursehub/backend/internal/models"
)

// userService implements user listing and lookup
type userService struct {
	userRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) *userService {
	return &userService{userRepo: userRepo}
}

// List returns every user to admins and only the caller to everybody else
func (s *userService) List(ctx context.Context, principal models.Principal) ([]models.User, error) {
	if principal.IsAdmin() {
		return s.userRepo.List(ctx)
	}

	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return []models.User{*user}, nil
}

// Get returns a user to admins or to the user themselves.
// Other users look like missing ones.
func (s *userService) Get(ctx context.Context, principal models.Principal, id int) (*models.User, error) {
	if !principal.IsAdmin() && principal.UserID != id {
		return nil, fmt.Errorf("user %w", models.ErrNotFound)
	}
	return s.userRepo.GetByID(ctx, id)
}
