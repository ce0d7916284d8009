package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/internal/app/repository"
	"github.com/essence-za/essence-backend/pkg/logger"
	"github.com/essence-za/essence-backend/pkg/payment/stripe"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrCheckoutFailed = errors.New("checkout failed")
)

// checkoutClient is the slice of the payment client this service needs.
type checkoutClient interface {
	CreateCheckoutSession(ctx context.Context, req stripe.SessionRequest) (*stripe.SessionResponse, error)
}

// CheckoutRequest carries the customer's checkout choices.
type CheckoutRequest struct {
	CustomerEmail   string
	CustomerName    string
	IncludeDelivery bool
}

// CheckoutResult is returned to the storefront so it can redirect the
// customer to the hosted payment page.
type CheckoutResult struct {
	SessionID   string
	RedirectURL string
	OrderID     uint
}

type CheckoutService interface {
	Checkout(ctx context.Context, token string, req CheckoutRequest) (*CheckoutResult, error)
}

type checkoutService struct {
	cartService    CartService
	settingService SettingService
	orderRepo      repository.OrderRepository
	client         checkoutClient
}

func NewCheckoutService(
	cartService CartService,
	settingService SettingService,
	orderRepo repository.OrderRepository,
	client checkoutClient,
) CheckoutService {
	return &checkoutService{
		cartService:    cartService,
		settingService: settingService,
		orderRepo:      orderRepo,
		client:         client,
	}
}

// Checkout opens a payment session for the cart and records a pending order.
// The cart is kept until payment completes so an abandoned session loses
// nothing.
func (s *checkoutService) Checkout(ctx context.Context, token string, req CheckoutRequest) (*CheckoutResult, error) {
	cart, err := s.cartService.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	settings, err := s.settingService.GetSettings()
	if err != nil {
		return nil, err
	}

	subtotal := Subtotal(cart)
	deliveryCost := DeliveryCost(req.IncludeDelivery, settings)
	total := subtotal.Add(deliveryCost)

	sessionReq := buildSessionRequest(cart, req, subtotal, deliveryCost)

	session, err := s.client.CreateCheckoutSession(ctx, sessionReq)
	if err != nil {
		logger.Error("Payment session creation failed", err, map[string]interface{}{
			"lines": len(cart.Items),
		})
		return nil, ErrCheckoutFailed
	}

	order := &model.Order{
		CustomerEmail:   req.CustomerEmail,
		CustomerName:    req.CustomerName,
		CustomerType:    cart.CustomerType,
		Subtotal:        subtotal,
		DeliveryCost:    deliveryCost,
		TotalAmount:     total,
		Status:          model.OrderStatusPending,
		StripeSessionID: session.ID,
		OrderItems:      orderItemsFromCart(cart),
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	logger.Info("Checkout session created", map[string]interface{}{
		"order_id":   order.ID,
		"session_id": session.ID,
		"total":      total.String(),
	})

	return &CheckoutResult{
		SessionID:   session.ID,
		RedirectURL: session.URL,
		OrderID:     order.ID,
	}, nil
}

// buildSessionRequest converts the cart into payment line items. Amounts
// cross into integer minor units here and nowhere else, rounding half away
// from zero.
func buildSessionRequest(cart *model.Cart, req CheckoutRequest, subtotal, deliveryCost decimal.Decimal) stripe.SessionRequest {
	lines := CheckoutLines(cart)

	items := make([]stripe.LineItem, 0, len(lines)+1)
	for _, line := range lines {
		items = append(items, stripe.LineItem{
			Name:       lineItemName(line),
			UnitAmount: toMinorUnits(line.UnitPrice),
			Quantity:   line.Quantity,
		})
	}

	includesDelivery := req.IncludeDelivery && deliveryCost.IsPositive()
	if includesDelivery {
		items = append(items, stripe.LineItem{
			Name:       "Delivery",
			UnitAmount: toMinorUnits(deliveryCost),
			Quantity:   1,
		})
	}

	orderItems, _ := json.Marshal(lines)

	return stripe.SessionRequest{
		LineItems: items,
		Metadata: map[string]string{
			"customer_type":     string(cart.CustomerType),
			"includes_delivery": fmt.Sprintf("%t", includesDelivery),
			"delivery_cost":     deliveryCost.StringFixed(2),
			"subtotal":          subtotal.StringFixed(2),
			"order_items":       string(orderItems),
		},
	}
}

func lineItemName(line model.CheckoutLine) string {
	name := fmt.Sprintf("%s (%dml)", line.Name, line.SizeML)
	if line.IsBulkPrice {
		name += " - Bulk Price"
	}
	return name
}

// toMinorUnits converts a major-unit amount to integer cents, rounding half
// away from zero.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func orderItemsFromCart(cart *model.Cart) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, model.OrderItem{
			VariantID:   line.VariantID,
			ProductID:   line.ProductID,
			Name:        line.Name,
			SizeML:      line.SizeML,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			IsBulkPrice: line.IsBulkPrice,
		})
	}
	return items
}
