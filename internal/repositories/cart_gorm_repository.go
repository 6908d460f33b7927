package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vitrina/internal/models"

	"gorm.io/gorm"
)

// errLineInserted signals that another request created the line between our
// increment and our insert.
var errLineInserted = errors.New("cart line inserted concurrently")

// maxDeltaAttempts bounds the retries after losing an insert race.
const maxDeltaAttempts = 3

// GORMCartRepository is a GORM implementation of CartRepository. Quantity changes are
// single UPDATE ... SET quantity = quantity + ? statements, so concurrent deltas for the
// same line never lose an increment.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// Increment adds delta to the line, creating it when absent. Lines whose quantity
// ends up at zero or below are deleted.
func (r *GORMCartRepository) Increment(ctx context.Context, userID, productID uint, delta int) error {
	return r.applyDelta(ctx, userID, productID, delta, true)
}

// Adjust adds delta to an existing line. Lines whose quantity ends up at zero or
// below are deleted.
func (r *GORMCartRepository) Adjust(ctx context.Context, userID, productID uint, delta int) error {
	return r.applyDelta(ctx, userID, productID, delta, false)
}

func (r *GORMCartRepository) applyDelta(ctx context.Context, userID, productID uint, delta int, upsert bool) error {
	var err error
	for attempt := 0; attempt < maxDeltaAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return applyDeltaTx(tx, userID, productID, delta, upsert)
		})
		if !errors.Is(err, errLineInserted) {
			return err
		}
	}
	return fmt.Errorf("failed to update cart line for product %d: %w", productID, err)
}

func applyDeltaTx(tx *gorm.DB, userID, productID uint, delta int, upsert bool) error {
	res := tx.Model(&models.CartLine{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to update cart line for product %d: %w", productID, res.Error)
	}

	if res.RowsAffected == 0 {
		if !upsert {
			return fmt.Errorf("cart line for product %d: %w", productID, models.ErrNotFound)
		}
		if delta <= 0 {
			return nil
		}
		line := models.CartLine{UserID: userID, ProductID: productID, Quantity: delta}
		if err := tx.Create(&line).Error; err != nil {
			if isUniqueViolation(err) {
				return errLineInserted
			}
			return fmt.Errorf("failed to create cart line for product %d: %w", productID, err)
		}
		return nil
	}

	err := tx.Where("user_id = ? AND product_id = ? AND quantity <= 0", userID, productID).
		Delete(&models.CartLine{}).Error
	if err != nil {
		return fmt.Errorf("failed to drop emptied cart line for product %d: %w", productID, err)
	}
	return nil
}

// Remove deletes the line. Removing an absent line is not an error.
func (r *GORMCartRepository) Remove(ctx context.Context, userID, productID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartLine{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove cart line for product %d: %w", productID, err)
	}
	return nil
}

// TotalQuantity sums the quantities of the user's lines. ok is false when the user
// has no lines at all.
func (r *GORMCartRepository) TotalQuantity(ctx context.Context, userID uint) (int, bool, error) {
	var total sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Select("SUM(quantity)").
		Where("user_id = ?", userID).
		Row().
		Scan(&total)
	if err != nil {
		return 0, false, fmt.Errorf("failed to sum cart of user %d: %w", userID, err)
	}
	if !total.Valid {
		return 0, false, nil
	}
	return int(total.Int64), true, nil
}

// Lines returns every line of the user joined to its product and the product's
// category. Lines whose product or category is missing are left out.
func (r *GORMCartRepository) Lines(ctx context.Context, userID uint) ([]models.CartItem, error) {
	db := r.db.WithContext(ctx)

	var lines []models.CartLine
	if err := db.Where("user_id = ?", userID).Order("id").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart of user %d: %w", userID, err)
	}
	if len(lines) == 0 {
		return []models.CartItem{}, nil
	}

	productIDs := make([]uint, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
	}
	var products []models.Product
	if err := db.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}
	productsByID := make(map[uint]models.Product, len(products))
	categoryIDs := make([]uint, 0, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
		if p.CategoryID != nil {
			categoryIDs = append(categoryIDs, *p.CategoryID)
		}
	}

	categoriesByID := make(map[uint]models.Category)
	if len(categoryIDs) > 0 {
		var categories []models.Category
		if err := db.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
			return nil, fmt.Errorf("failed to load cart categories: %w", err)
		}
		for _, c := range categories {
			categoriesByID[c.ID] = c
		}
	}

	items := make([]models.CartItem, 0, len(lines))
	for _, l := range lines {
		product, ok := productsByID[l.ProductID]
		if !ok || product.CategoryID == nil {
			continue
		}
		category, ok := categoriesByID[*product.CategoryID]
		if !ok {
			continue
		}
		items = append(items, models.CartItem{Line: l, Product: product, Category: category})
	}
	return items, nil
}
