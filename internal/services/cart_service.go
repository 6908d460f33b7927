package services

import (
	"context"

	"vitrina/internal/models"
	"vitrina/internal/repositories"

	"go.uber.org/zap"
)

// CartSummary is the cart page content.
type CartSummary struct {
	Items         []models.CartItem `json:"cart"`
	TotalQuantity int               `json:"total_quantity"`
	TotalPrice    float64           `json:"total_price"`
}

// CartService maintains the cart lines of a user. The user is always passed in
// explicitly; nothing here knows about the demo user.
type CartService struct {
	cart     repositories.CartRepository
	products repositories.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(cart repositories.CartRepository, products repositories.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		cart:     cart,
		products: products,
		logger:   logger,
	}
}

// Add increases the quantity of the product in the user's cart, creating the line on
// first add. Quantities are signed; a line that drops to zero or below is removed.
func (s *CartService) Add(ctx context.Context, userID, productID uint, quantity int) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	if err := s.cart.Increment(ctx, userID, productID, quantity); err != nil {
		return err
	}
	s.logger.Debug("cart add", zap.Uint("user_id", userID), zap.Uint("product_id", productID), zap.Int("quantity", quantity))
	return nil
}

// ChangeQuantity applies a signed delta to an existing line. A line that drops to
// zero or below is removed; an absent line is models.ErrNotFound.
func (s *CartService) ChangeQuantity(ctx context.Context, userID, productID uint, delta int) error {
	if err := s.cart.Adjust(ctx, userID, productID, delta); err != nil {
		return err
	}
	s.logger.Debug("cart change", zap.Uint("user_id", userID), zap.Uint("product_id", productID), zap.Int("delta", delta))
	return nil
}

// Remove deletes the line. Removing an absent line succeeds.
func (s *CartService) Remove(ctx context.Context, userID, productID uint) error {
	return s.cart.Remove(ctx, userID, productID)
}

// TotalQuantity returns the number of items in the cart. ok is false for an empty
// cart, which is distinct from a zero total.
func (s *CartService) TotalQuantity(ctx context.Context, userID uint) (total int, ok bool, err error) {
	return s.cart.TotalQuantity(ctx, userID)
}

// Lines returns the user's lines joined with product and category.
func (s *CartService) Lines(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.cart.Lines(ctx, userID)
}

// Summary returns the lines with their quantity and price totals. Products without a
// price count as free.
func (s *CartService) Summary(ctx context.Context, userID uint) (*CartSummary, error) {
	items, err := s.cart.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := &CartSummary{Items: items}
	for _, item := range items {
		summary.TotalQuantity += item.Line.Quantity
		if item.Product.Price != nil {
			summary.TotalPrice += *item.Product.Price * float64(item.Line.Quantity)
		}
	}
	return summary, nil
}
