package repositories

import (
	"context"

	"vitrina/internal/models"
)

// CartRepository defines the interface for cart line data access. Every method is
// scoped to one user.
type CartRepository interface {
	// Increment adds delta to the (user, product) line, creating it when absent.
	Increment(ctx context.Context, userID, productID uint, delta int) error
	// Adjust adds delta to an existing line; an absent line is models.ErrNotFound.
	Adjust(ctx context.Context, userID, productID uint, delta int) error
	Remove(ctx context.Context, userID, productID uint) error
	TotalQuantity(ctx context.Context, userID uint) (int, bool, error)
	Lines(ctx context.Context, userID uint) ([]models.CartItem, error)
}
