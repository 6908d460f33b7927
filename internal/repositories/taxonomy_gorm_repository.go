package repositories

import (
	"context"
	"errors"
	"fmt"

	"vitrina/internal/models"

	"gorm.io/gorm"
)

// GORMTaxonomyRepository is a GORM implementation of TaxonomyRepository.
type GORMTaxonomyRepository struct {
	db *gorm.DB
}

// NewGORMTaxonomyRepository creates a new instance of GORMTaxonomyRepository.
func NewGORMTaxonomyRepository(db *gorm.DB) *GORMTaxonomyRepository {
	return &GORMTaxonomyRepository{db: db}
}

// ListCategories retrieves every category ordered by ID.
func (r *GORMTaxonomyRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by its ID.
func (r *GORMTaxonomyRepository) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category with ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by ID %d: %w", id, err)
	}
	return &category, nil
}

// GetCategoryByName retrieves a category by its name.
func (r *GORMTaxonomyRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %q: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category %q: %w", name, err)
	}
	return &category, nil
}

// CreateCategory stores a new category.
func (r *GORMTaxonomyRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", category.Name, models.ErrConstraintViolation)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// UpdateCategory rewrites the name and color of a category.
func (r *GORMTaxonomyRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).Model(category).Select("name", "color").Updates(category)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("category %q: %w", category.Name, models.ErrConstraintViolation)
		}
		return fmt.Errorf("failed to update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %d: %w", category.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteCategory removes a category. Products keep their dangling reference and drop
// out of the joined listings.
func (r *GORMTaxonomyRepository) DeleteCategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// ListCreators retrieves every creator ordered by ID.
func (r *GORMTaxonomyRepository) ListCreators(ctx context.Context) ([]models.Creator, error) {
	var creators []models.Creator
	if err := r.db.WithContext(ctx).Order("id").Find(&creators).Error; err != nil {
		return nil, fmt.Errorf("failed to list creators: %w", err)
	}
	return creators, nil
}

// GetCreatorByID retrieves a creator by its ID.
func (r *GORMTaxonomyRepository) GetCreatorByID(ctx context.Context, id uint) (*models.Creator, error) {
	var creator models.Creator
	if err := r.db.WithContext(ctx).First(&creator, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("creator with ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get creator by ID %d: %w", id, err)
	}
	return &creator, nil
}

// CreateCreator stores a new creator.
func (r *GORMTaxonomyRepository) CreateCreator(ctx context.Context, creator *models.Creator) error {
	if err := r.db.WithContext(ctx).Create(creator).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("creator %q: %w", creator.Brand, models.ErrConstraintViolation)
		}
		return fmt.Errorf("failed to create creator: %w", err)
	}
	return nil
}

// UpdateCreator rewrites every field of a creator.
func (r *GORMTaxonomyRepository) UpdateCreator(ctx context.Context, creator *models.Creator) error {
	res := r.db.WithContext(ctx).Model(creator).Select("brand", "name", "info", "address").Updates(creator)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("creator %q: %w", creator.Brand, models.ErrConstraintViolation)
		}
		return fmt.Errorf("failed to update creator: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("creator with ID %d: %w", creator.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteCreator removes a creator by its ID.
func (r *GORMTaxonomyRepository) DeleteCreator(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Creator{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete creator: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("creator with ID %d: %w", id, models.ErrNotFound)
	}
	return nil
}
