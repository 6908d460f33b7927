package repositories

import (
	"context"
	"errors"
	"fmt"
	"math"

	"vitrina/internal/models"

	"gorm.io/gorm"
)

// productUpdateColumns are the columns an edit may change.
var productUpdateColumns = []string{
	"name", "creator_id", "category_id", "rating", "cover", "description", "notes",
	"price", "in_action", "new", "in_stock", "updated_at",
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// listQuery builds the filtered join of products and categories.
func (r *GORMProductRepository) listQuery(ctx context.Context, filter ProductFilter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.rating >= ?", filter.MinRating)
	if filter.Category != "" {
		q = q.Where("categories.name = ?", filter.Category)
	}
	if filter.CreatorID != 0 {
		q = q.Where("products.creator_id = ?", filter.CreatorID)
	}
	return q
}

// List returns one page of products joined with their category, newest first, plus the
// number of products matching the filter. Products without a category never match.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]models.ProductListing, int64, error) {
	var total int64
	if err := r.listQuery(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	offset, ok := pageOffset(page, pageSize)
	if !ok || int64(offset) >= total {
		return []models.ProductListing{}, total, nil
	}

	var products []models.Product
	err := r.listQuery(ctx, filter).
		Order("products.created_at DESC").
		Order("products.id ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	if len(products) == 0 {
		return []models.ProductListing{}, total, nil
	}

	categoryIDs := make([]uint, 0, len(products))
	for _, p := range products {
		categoryIDs = append(categoryIDs, *p.CategoryID)
	}
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load categories for listing: %w", err)
	}
	byID := make(map[uint]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	listings := make([]models.ProductListing, 0, len(products))
	for _, p := range products {
		category, ok := byID[*p.CategoryID]
		if !ok {
			continue
		}
		listings = append(listings, models.ProductListing{Product: p, Category: category})
	}
	return listings, total, nil
}

// pageOffset returns the row offset of a 1-indexed page. ok is false when the
// offset does not fit in an int, which is always past the end.
func pageOffset(page, pageSize int) (int, bool) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || page-1 > math.MaxInt/pageSize {
		return 0, false
	}
	return (page - 1) * pageSize, true
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetInAction retrieves up to limit products flagged as on promotion.
func (r *GORMProductRepository) GetInAction(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("in_action = ?", true).Order("id").Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get promoted products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetByName retrieves a single product by its unique name.
func (r *GORMProductRepository) GetByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product named %q: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by name %q: %w", name, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.Cover == "" {
		product.Cover = models.DefaultCover
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product %q: %w", product.Name, models.ErrConstraintViolation)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes the editable columns of an existing product inside a transaction.
// A unique violation rolls the transaction back.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(product).
			Select(productUpdateColumns).
			Updates(product)
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				return fmt.Errorf("product %q: %w", product.Name, models.ErrConstraintViolation)
			}
			return fmt.Errorf("failed to update product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %d: %w", product.ID, models.ErrNotFound)
		}
		return nil
	})
}

// Delete deletes a product and the cart lines that reference it.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartLine{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart lines of product %d: %w", id, err)
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
		}
		return nil
	})
}
