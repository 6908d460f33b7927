package models

// Category groups products. Name is the key the catalog filters on.
type Category struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"category" form:"category" gorm:"type:varchar(20);uniqueIndex;not null" validate:"required,max=20"`
	Color string `json:"clr" form:"clr" gorm:"type:varchar(16)" validate:"max=16"`
}

// Creator is the brand that makes a product.
type Creator struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Brand   string `json:"brand" form:"brand" gorm:"type:varchar(20);uniqueIndex;not null" validate:"required,max=20"`
	Name    string `json:"name" form:"name" gorm:"type:varchar(30)" validate:"max=30"`
	Info    string `json:"info" form:"info" gorm:"type:text"`
	Address string `json:"address" form:"address" gorm:"type:text"`
}
