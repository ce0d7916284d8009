package service

import (
	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// EffectivePrice determines the unit price for a cart line and whether the
// bulk tier applied. Bulk pricing applies only when all of these hold: the
// customer is a reseller, the variant defines a bulk tier, the line
// quantity reaches the tier minimum (inclusive), and the store has bulk
// discounts enabled.
//
// The quantity is the single line's quantity, not an aggregate across the
// cart. No currency rounding happens here; conversion to minor units is
// done at the payment boundary only.
func EffectivePrice(variant *model.ProductVariant, quantity int, customerType model.CustomerType, bulkDiscountEnabled bool) (decimal.Decimal, bool) {
	if customerType == model.CustomerReseller &&
		bulkDiscountEnabled &&
		variant.HasBulkTier() &&
		quantity >= variant.BulkMinQuantity {
		return *variant.BulkPrice, true
	}
	return variant.RegularPrice, false
}
