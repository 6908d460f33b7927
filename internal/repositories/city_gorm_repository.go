package repositories

import (
	"context"
	"errors"
	"fmt"

	"vitrina/internal/models"

	"gorm.io/gorm"
)

// GORMCityRepository is a GORM implementation of CityRepository.
type GORMCityRepository struct {
	db *gorm.DB
}

// NewGORMCityRepository creates a new instance of GORMCityRepository.
func NewGORMCityRepository(db *gorm.DB) *GORMCityRepository {
	return &GORMCityRepository{db: db}
}

// GetAll retrieves every city in insertion order.
func (r *GORMCityRepository) GetAll(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	if err := r.db.WithContext(ctx).Order("id").Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("failed to get cities: %w", err)
	}
	return cities, nil
}

// GetByName retrieves a city by its name.
func (r *GORMCityRepository) GetByName(ctx context.Context, name string) (*models.City, error) {
	var city models.City
	if err := r.db.WithContext(ctx).First(&city, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("city %q: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get city %q: %w", name, err)
	}
	return &city, nil
}

// Create stores a new city. A taken name is models.ErrConstraintViolation.
func (r *GORMCityRepository) Create(ctx context.Context, city *models.City) error {
	if err := r.db.WithContext(ctx).Create(city).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("city %q: %w", city.Name, models.ErrConstraintViolation)
		}
		return fmt.Errorf("failed to create city: %w", err)
	}
	return nil
}

// Delete removes a city by its ID.
func (r *GORMCityRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.City{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete city: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("city with ID %d: %w", id, models.ErrNotFound)
	}
	return nil
}
