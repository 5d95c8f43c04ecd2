package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a row of the products table.
type Product struct {
	ID           uint            `gorm:"primaryKey" json:"ID"`
	Name         string          `gorm:"size:255;not null" json:"Name"`
	CategoryID   *uint           `gorm:"index" json:"CategoryID"`
	BrandID      *uint           `gorm:"index" json:"BrandID"`
	PurchaseRate decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"PurchaseRate"`
	SalesRate    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"SalesRate"`

	CategoryName *string `gorm:"->;-:migration" json:"CategoryName"`
	BrandName    *string `gorm:"->;-:migration" json:"BrandName"`
}

func (Product) TableName() string {
	return "products"
}

// ProductImage links a stored image file to a product.
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"ID"`
	ProductID uint      `gorm:"index;not null" json:"ProductID"`
	ImagePath string    `gorm:"size:500;not null" json:"ImagePath"`
	CreatedAt time.Time `json:"CreatedAt"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
