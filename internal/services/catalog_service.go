package services

import (
	"context"
	"errors"
	"fmt"

	"vitrina/internal/models"
	"vitrina/internal/repositories"
)

// PromotedLimit is how many in-action products the storefront shows.
const PromotedLimit = 4

// CatalogPage is one page of the catalog plus what the filter controls need.
type CatalogPage struct {
	Products   models.Page[models.ProductListing] `json:"products"`
	Categories []models.Category                  `json:"categories"`
	Creators   []models.Creator                   `json:"creators"`
	Filter     repositories.ProductFilter         `json:"filter"`
}

// Storefront is the content of the shop front page.
type Storefront struct {
	Products   []models.Product  `json:"product"`
	Promoted   []models.Product  `json:"action"`
	Categories []models.Category `json:"category"`
}

// CatalogService answers read-only catalog queries.
type CatalogService struct {
	products repositories.ProductRepository
	taxonomy repositories.TaxonomyRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products repositories.ProductRepository, taxonomy repositories.TaxonomyRepository) *CatalogService {
	return &CatalogService{
		products: products,
		taxonomy: taxonomy,
	}
}

// List returns the requested page of products matching every set filter, newest first.
// Pages start at 1; smaller values are read as 1. A page past the end is empty.
func (s *CatalogService) List(ctx context.Context, filter repositories.ProductFilter, page, pageSize int) (*CatalogPage, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	if page < 1 {
		page = 1
	}

	listings, total, err := s.products.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	categories, err := s.taxonomy.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	creators, err := s.taxonomy.ListCreators(ctx)
	if err != nil {
		return nil, err
	}

	return &CatalogPage{
		Products:   models.NewPage(listings, page, pageSize, total),
		Categories: categories,
		Creators:   creators,
		Filter:     filter,
	}, nil
}

// Get returns a product with its category and creator. A dangling category or
// creator reference leaves that part nil.
func (s *CatalogService) Get(ctx context.Context, id uint) (*models.ProductDetail, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &models.ProductDetail{Product: *product}

	if product.CategoryID != nil {
		category, err := s.taxonomy.GetCategoryByID(ctx, *product.CategoryID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		detail.Category = category
	}

	creator, err := s.taxonomy.GetCreatorByID(ctx, product.CreatorID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	detail.Creator = creator
	return detail, nil
}

// Export returns the full product collection.
func (s *CatalogService) Export(ctx context.Context) ([]models.Product, error) {
	return s.products.GetAll(ctx)
}

// Storefront returns every product, the promoted ones and the categories.
func (s *CatalogService) Storefront(ctx context.Context) (*Storefront, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	promoted, err := s.products.GetInAction(ctx, PromotedLimit)
	if err != nil {
		return nil, err
	}
	categories, err := s.taxonomy.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &Storefront{Products: products, Promoted: promoted, Categories: categories}, nil
}
