package models

import "time"

// User represents a storefront customer.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(30);uniqueIndex;not null" validate:"required,email,max=30"`
	Nickname  string    `json:"nickname" gorm:"type:varchar(15);uniqueIndex;not null" validate:"required,min=3,max=15"`
	Password  string    `json:"password,omitempty" gorm:"type:varchar(255);not null" validate:"required,min=6,max=72"` // bcrypt hash once stored
	Discount  *float64  `json:"discount"`
	CreatedAt time.Time `json:"created_at"`
}
