package models

// CartLine binds a user, a product and a quantity. There is at most one line per
// (user, product) pair and a stored line always has a positive quantity.
type CartLine struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	UserID    uint     `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint     `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_user_product;index"`
	Quantity  int      `json:"quantity" gorm:"not null"`
	Discount  *float64 `json:"discount"`
	PaidFor   bool     `json:"paid_for" gorm:"default:false"`
	Received  bool     `json:"received" gorm:"default:false"`
}

// CartItem is a cart line with the product and category it is rendered with.
type CartItem struct {
	Line     CartLine `json:"line"`
	Product  Product  `json:"product"`
	Category Category `json:"category"`
}
