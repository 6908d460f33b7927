package repositories

import (
	"context"

	"vitrina/internal/models"
)

// CityRepository defines the interface for weather dashboard cities.
type CityRepository interface {
	GetAll(ctx context.Context) ([]models.City, error)
	GetByName(ctx context.Context, name string) (*models.City, error)
	Create(ctx context.Context, city *models.City) error
	Delete(ctx context.Context, id uint) error
}
