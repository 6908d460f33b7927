package repositories

import (
	"context"

	"vitrina/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	EnsureExists(ctx context.Context, user *models.User) error
	GetByNickname(ctx context.Context, nickname string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
}
