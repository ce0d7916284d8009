package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	ImageURL     string         `json:"image_url"`
	IsNewArrival bool           `gorm:"default:false" json:"is_new_arrival"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants"`
}

func (Product) TableName() string {
	return "products"
}

// VariantByID returns the variant with the given id, or nil if the product
// has no such variant.
func (p *Product) VariantByID(variantID uint) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// InStock reports whether at least one variant has positive stock
func (p *Product) InStock() bool {
	for i := range p.Variants {
		if p.Variants[i].StockQuantity > 0 {
			return true
		}
	}
	return false
}
