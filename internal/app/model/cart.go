package model

import (
	"github.com/shopspring/decimal"
)

type CustomerType string

const (
	CustomerRegular  CustomerType = "regular"
	CustomerReseller CustomerType = "reseller"
)

// Valid reports whether ct is a known customer classification
func (ct CustomerType) Valid() bool {
	return ct == CustomerRegular || ct == CustomerReseller
}

// CartLine is one cart entry per selected variant. Name, SizeML and
// ImageURL are frozen at add time; UnitPrice and IsBulkPrice are recomputed
// from the live variant and settings on every quantity change.
type CartLine struct {
	VariantID   uint            `json:"variant_id"`
	ProductID   uint            `json:"product_id"`
	Name        string          `json:"name"`
	SizeML      int             `json:"size_ml"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	IsBulkPrice bool            `json:"is_bulk_price"`
}

// Cart is a session-scoped collection of cart lines in insertion order.
// It is a plain value: operations on it produce new carts.
type Cart struct {
	CustomerType CustomerType `json:"customer_type"`
	Items        []CartLine   `json:"items"`
}

// NewCart returns an empty cart for a regular customer
func NewCart() *Cart {
	return &Cart{
		CustomerType: CustomerRegular,
		Items:        []CartLine{},
	}
}

// Clone returns a deep copy of the cart
func (c *Cart) Clone() *Cart {
	items := make([]CartLine, len(c.Items))
	copy(items, c.Items)
	return &Cart{
		CustomerType: c.CustomerType,
		Items:        items,
	}
}

// LineIndex returns the index of the line for variantID, or -1
func (c *Cart) LineIndex(variantID uint) int {
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

// CheckoutLine is the projection of a cart line handed to the payment
// collaborator.
type CheckoutLine struct {
	VariantID   uint            `json:"variant_id"`
	Name        string          `json:"name"`
	SizeML      int             `json:"size_ml"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	IsBulkPrice bool            `json:"is_bulk_price"`
}
