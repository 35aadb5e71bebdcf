package repositories

import (
	"context"

	"shoeshop/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// GetByUsernameOrEmail returns the first user whose username or email equals identifier.
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
