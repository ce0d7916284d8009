package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether st is a known order status
func (st OrderStatus) Valid() bool {
	return st == OrderStatusPending || st == OrderStatusPaid || st == OrderStatusCancelled
}

// Order records a checkout session handed to the payment provider. Items
// are a denormalized snapshot of the cart at checkout time.
type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerName    string          `json:"customer_name"`
	CustomerType    CustomerType    `gorm:"type:varchar(20);not null;default:regular" json:"customer_type"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryCost    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_cost"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	StripeSessionID string          `gorm:"index" json:"stripe_session_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	VariantID   uint            `gorm:"not null" json:"variant_id"`
	ProductID   uint            `gorm:"not null" json:"product_id"`
	Name        string          `gorm:"not null" json:"name"`
	SizeML      int             `gorm:"column:size_ml;not null" json:"size_ml"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	IsBulkPrice bool            `gorm:"default:false" json:"is_bulk_price"`
	CreatedAt   time.Time       `json:"created_at"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
