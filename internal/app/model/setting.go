package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Setting is one row of the flat key-value store settings table
type Setting struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Well-known setting keys
const (
	SettingDeliveryCost        = "delivery_cost"
	SettingBulkDiscountEnabled = "bulk_discount_enabled"
)

// Settings is the settings table reduced to a key-value map
type Settings map[string]string

// DeliveryCost parses the delivery_cost setting. A missing or malformed
// value falls back to zero so checkout stays available.
func (s Settings) DeliveryCost() decimal.Decimal {
	raw, ok := s[SettingDeliveryCost]
	if !ok {
		return decimal.Zero
	}
	cost, err := decimal.NewFromString(raw)
	if err != nil || cost.IsNegative() {
		return decimal.Zero
	}
	return cost
}

// BulkDiscountEnabled parses the bulk_discount_enabled setting. Anything
// other than the literal string "true" disables bulk pricing.
func (s Settings) BulkDiscountEnabled() bool {
	return s[SettingBulkDiscountEnabled] == "true"
}
