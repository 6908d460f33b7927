package repositories

import (
	"context"

	"vitrina/internal/models"
)

// ProductFilter narrows a catalog listing. Zero values mean "no filter".
type ProductFilter struct {
	Category  string `json:"flt"`
	CreatorID uint   `json:"creator"`
	MinRating int    `json:"rtn"`
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]models.ProductListing, int64, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetInAction(ctx context.Context, limit int) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByName(ctx context.Context, name string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}
