package repositories

import (
	"context"

	"vitrina/internal/models"
)

// TaxonomyRepository defines the interface for category and creator data access.
type TaxonomyRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error

	ListCreators(ctx context.Context) ([]models.Creator, error)
	GetCreatorByID(ctx context.Context, id uint) (*models.Creator, error)
	CreateCreator(ctx context.Context, creator *models.Creator) error
	UpdateCreator(ctx context.Context, creator *models.Creator) error
	DeleteCreator(ctx context.Context, id uint) error
}
