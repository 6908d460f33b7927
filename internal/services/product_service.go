package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"vitrina/internal/models"
	"vitrina/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ProductInput is the candidate content of a create or edit form.
type ProductInput struct {
	Name        string   `form:"name" json:"name" validate:"required,min=5,max=100"`
	CreatorID   uint     `form:"creator_id" json:"creator_id"`
	Category    string   `form:"category" json:"category" validate:"required"`
	Rating      int      `form:"rating" json:"rating" validate:"min=0,max=5"`
	Description string   `form:"description" json:"description" validate:"required,max=500"`
	Notes       string   `form:"notes" json:"notes" validate:"required,max=500"`
	Price       *float64 `form:"price" json:"price" validate:"omitempty,gte=0"`
	InAction    bool     `form:"in_action" json:"in_action"`
	New         bool     `form:"new" json:"new"`
	InStock     float64  `form:"in_stock" json:"in_stock" validate:"gte=0"`

	Cover *ImageUpload `form:"-" json:"-" validate:"-"`
}

// productRule checks one aspect of a ProductInput. Rules are pure and run in order
// before anything touches the store.
type productRule func(in *ProductInput) []models.FieldError

func creatorChosen(in *ProductInput) []models.FieldError {
	if in.CreatorID == 0 {
		return []models.FieldError{{Field: "creator_id", Message: "a creator must be chosen; add it to the catalog first if needed"}}
	}
	return nil
}

func ratingChosen(in *ProductInput) []models.FieldError {
	if in.Rating == 0 {
		return []models.FieldError{{Field: "rating", Message: "choose a rating"}}
	}
	return nil
}

func coverExtension(in *ProductInput) []models.FieldError {
	if in.Cover == nil {
		return nil
	}
	if !allowedImageExts[strings.ToLower(filepath.Ext(in.Cover.Filename))] {
		return []models.FieldError{{Field: "cover", Message: "only jpg, jpeg and png images are allowed"}}
	}
	return nil
}

// ProductService handles creating, editing and deleting products.
type ProductService struct {
	repo      repositories.ProductRepository
	taxonomy  repositories.TaxonomyRepository
	images    ImageStore
	publisher EventPublisher
	logger    *zap.Logger
	rules     []productRule
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, taxonomy repositories.TaxonomyRepository, images ImageStore, publisher EventPublisher, logger *zap.Logger) *ProductService {
	v := newValidator()
	return &ProductService{
		repo:      repo,
		taxonomy:  taxonomy,
		images:    images,
		publisher: publisher,
		logger:    logger,
		rules: []productRule{
			tagRule(v),
			creatorChosen,
			ratingChosen,
			coverExtension,
		},
	}
}

func tagRule(v *validator.Validate) productRule {
	return func(in *ProductInput) []models.FieldError {
		return structErrors(v, in)
	}
}

// Validate runs every rule and returns the collected failures, or nil.
func (s *ProductService) Validate(in *ProductInput) *models.ValidationError {
	verr := &models.ValidationError{}
	for _, rule := range s.rules {
		verr.Fields = append(verr.Fields, rule(in)...)
	}
	if !verr.HasErrors() {
		return nil
	}
	return verr
}

// resolveReferences checks that the creator and category exist and returns the
// category id. Failures are added to verr.
func (s *ProductService) resolveReferences(ctx context.Context, in *ProductInput, verr *models.ValidationError) (*uint, error) {
	if in.CreatorID != 0 {
		if _, err := s.taxonomy.GetCreatorByID(ctx, in.CreatorID); err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				return nil, err
			}
			verr.Add("creator_id", "unknown creator")
		}
	}
	if in.Category == "" {
		return nil, nil
	}
	category, err := s.taxonomy.GetCategoryByName(ctx, in.Category)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		verr.Add("category", "unknown category")
		return nil, nil
	}
	return &category.ID, nil
}

// Create validates the input and stores a new product. Without an uploaded image the
// product gets the default cover.
func (s *ProductService) Create(ctx context.Context, in *ProductInput) (*models.Product, error) {
	verr := s.Validate(in)
	if verr == nil {
		verr = &models.ValidationError{}
	}

	categoryID, err := s.resolveReferences(ctx, in, verr)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		_, err := s.repo.GetByName(ctx, in.Name)
		switch {
		case err == nil:
			verr.Add("name", "a product with this name already exists")
		case !errors.Is(err, models.ErrNotFound):
			return nil, err
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	cover := models.DefaultCover
	if in.Cover != nil {
		if cover, err = s.images.Save(in.Cover); err != nil {
			return nil, err
		}
	}

	product := &models.Product{Cover: cover}
	applyInput(product, in, categoryID)

	if err := s.repo.Create(ctx, product); err != nil {
		s.discardImage(cover)
		return nil, err
	}

	s.logger.Info("product created", zap.Uint("product_id", product.ID), zap.String("name", product.Name))
	publish(s.publisher, s.logger, EventProductCreated, product)
	return product, nil
}

// Update validates the input and rewrites an existing product. The name is not checked
// against other rows up front; a collision surfaces from the store as
// models.ErrConstraintViolation and nothing is written. Without an uploaded image the
// current cover is kept.
func (s *ProductService) Update(ctx context.Context, id uint, in *ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := s.Validate(in)
	if verr == nil {
		verr = &models.ValidationError{}
	}
	categoryID, err := s.resolveReferences(ctx, in, verr)
	if err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		return nil, verr
	}

	newCover := ""
	if in.Cover != nil {
		if newCover, err = s.images.Save(in.Cover); err != nil {
			return nil, err
		}
		product.Cover = newCover
	}
	applyInput(product, in, categoryID)

	if err := s.repo.Update(ctx, product); err != nil {
		s.discardImage(newCover)
		if errors.Is(err, models.ErrConstraintViolation) {
			s.logger.Info("product update rejected", zap.Uint("product_id", id), zap.String("name", in.Name))
		}
		return nil, err
	}

	s.logger.Info("product updated", zap.Uint("product_id", product.ID))
	publish(s.publisher, s.logger, EventProductUpdated, product)
	return product, nil
}

// Delete removes a product and its cart lines.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.Uint("product_id", id))
	publish(s.publisher, s.logger, EventProductDeleted, map[string]uint{"id": id})
	return nil
}

func (s *ProductService) discardImage(name string) {
	if name == "" || name == models.DefaultCover {
		return
	}
	if err := s.images.Remove(name); err != nil {
		s.logger.Warn("failed to discard unused image", zap.String("image", name), zap.Error(err))
	}
}

func applyInput(p *models.Product, in *ProductInput, categoryID *uint) {
	p.Name = in.Name
	p.CreatorID = in.CreatorID
	p.CategoryID = categoryID
	p.Rating = in.Rating
	p.Description = in.Description
	p.Notes = in.Notes
	p.Price = in.Price
	p.InAction = in.InAction
	p.New = in.New
	p.InStock = in.InStock
}
