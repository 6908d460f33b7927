package models

import "time"

// DefaultCover is the cover file used when a product is created without an image.
const DefaultCover = "default.jpg"

// Product represents a catalog item. CreatorID and CategoryID reference rows of their
// own tables; joins are done by the repositories at query time.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatorID   uint      `json:"creator_id" gorm:"not null;index"`
	CategoryID  *uint     `json:"category_id" gorm:"index"`
	Rating      int       `json:"rating"` // 0 means no rating chosen
	Cover       string    `json:"cover" gorm:"type:varchar(50);not null;default:default.jpg"`
	Description string    `json:"description" gorm:"type:text"`
	Notes       string    `json:"notes" gorm:"type:text"`
	Price       *float64  `json:"price"`
	InAction    bool      `json:"in_action" gorm:"default:false"`
	New         bool      `json:"new" gorm:"default:false"`
	InStock     float64   `json:"in_stock" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListing is a product joined with its category.
type ProductListing struct {
	Product  Product  `json:"product"`
	Category Category `json:"category"`
}

// ProductDetail is everything the product page shows.
type ProductDetail struct {
	Product  Product   `json:"product"`
	Category *Category `json:"category"`
	Creator  *Creator  `json:"creator"`
}
