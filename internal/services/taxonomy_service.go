package services

import (
	"context"

	"vitrina/internal/models"
	"vitrina/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TaxonomyService manages categories and creators.
type TaxonomyService struct {
	repo     repositories.TaxonomyRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewTaxonomyService creates a new TaxonomyService.
func NewTaxonomyService(repo repositories.TaxonomyRepository, logger *zap.Logger) *TaxonomyService {
	return &TaxonomyService{repo: repo, validate: newValidator(), logger: logger}
}

func (s *TaxonomyService) check(v interface{}) error {
	if fields := structErrors(s.validate, v); len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}

// Categories returns every category.
func (s *TaxonomyService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// CreateCategory validates and stores a new category. A taken name is
// models.ErrConstraintViolation.
func (s *TaxonomyService) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := s.check(category); err != nil {
		return err
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return err
	}
	s.logger.Info("category created", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	return nil
}

// UpdateCategory validates and rewrites an existing category.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, category *models.Category) error {
	if err := s.check(category); err != nil {
		return err
	}
	return s.repo.UpdateCategory(ctx, category)
}

// DeleteCategory removes a category.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id uint) error {
	return s.repo.DeleteCategory(ctx, id)
}

// Creators returns every creator.
func (s *TaxonomyService) Creators(ctx context.Context) ([]models.Creator, error) {
	return s.repo.ListCreators(ctx)
}

// CreateCreator validates and stores a new creator. A taken brand is
// models.ErrConstraintViolation.
func (s *TaxonomyService) CreateCreator(ctx context.Context, creator *models.Creator) error {
	if err := s.check(creator); err != nil {
		return err
	}
	if err := s.repo.CreateCreator(ctx, creator); err != nil {
		return err
	}
	s.logger.Info("creator created", zap.Uint("creator_id", creator.ID), zap.String("brand", creator.Brand))
	return nil
}

// UpdateCreator validates and rewrites an existing creator.
func (s *TaxonomyService) UpdateCreator(ctx context.Context, creator *models.Creator) error {
	if err := s.check(creator); err != nil {
		return err
	}
	return s.repo.UpdateCreator(ctx, creator)
}

// DeleteCreator removes a creator.
func (s *TaxonomyService) DeleteCreator(ctx context.Context, id uint) error {
	return s.repo.DeleteCreator(ctx, id)
}
