package repositories

import (
	"context"
	"errors"
	"fmt"

	"vitrina/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", user.Nickname, models.ErrConstraintViolation)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// EnsureExists inserts the user unless a row with its ID is already stored.
func (r *GORMUserRepository) EnsureExists(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Where(models.User{ID: user.ID}).FirstOrCreate(user).Error; err != nil {
		return fmt.Errorf("failed to ensure user %d: %w", user.ID, err)
	}
	return nil
}

// GetByNickname retrieves a user by their nickname from the database.
func (r *GORMUserRepository) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "nickname = ?", nickname).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with nickname %s: %w", nickname, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by nickname %s: %w", nickname, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}
