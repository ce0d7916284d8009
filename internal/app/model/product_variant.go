package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant is one sellable bottle size of a product. A variant may
// carry an optional bulk tier: BulkPrice applies from BulkMinQuantity units
// per cart line, for reseller customers only.
type ProductVariant struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	ProductID       uint             `gorm:"index:idx_variants_product_size,unique;not null" json:"product_id"`
	SizeML          int              `gorm:"column:size_ml;index:idx_variants_product_size,unique;not null" json:"size_ml"`
	RegularPrice    decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"regular_price"`
	BulkPrice       *decimal.Decimal `gorm:"type:decimal(10,2)" json:"bulk_price,omitempty"`
	BulkMinQuantity int              `gorm:"default:0" json:"bulk_min_quantity,omitempty"`
	StockQuantity   int              `gorm:"default:0" json:"stock_quantity"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

// HasBulkTier reports whether the variant defines bulk pricing
func (v *ProductVariant) HasBulkTier() bool {
	return v.BulkPrice != nil && v.BulkMinQuantity > 0
}
