package service

import (
	"context"
	"testing"

	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/internal/app/repository"
	"github.com/essence-za/essence-backend/internal/db"
	"github.com/essence-za/essence-backend/pkg/payment/stripe"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubCheckoutClient struct {
	lastRequest *stripe.SessionRequest
	err         error
}

func (c *stubCheckoutClient) CreateCheckoutSession(_ context.Context, req stripe.SessionRequest) (*stripe.SessionResponse, error) {
	c.lastRequest = &req
	if c.err != nil {
		return nil, c.err
	}
	return &stripe.SessionResponse{
		ID:  "cs_test_123",
		URL: "https://checkout.stripe.com/pay/cs_test_123",
	}, nil
}

func setupCheckoutServiceTest(t *testing.T) (CheckoutService, CartService, *stubCheckoutClient, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	require.NoError(t, testDB.Create(&model.Setting{Key: model.SettingDeliveryCost, Value: "75.50"}).Error)
	require.NoError(t, testDB.Create(&model.Setting{Key: model.SettingBulkDiscountEnabled, Value: "true"}).Error)

	bulkPrice := decimal.RequireFromString("380.00")
	product := &model.Product{
		Name:     "Amber Oud",
		ImageURL: "https://img.example/amber-oud.jpg",
		Variants: []model.ProductVariant{
			{
				SizeML:          50,
				RegularPrice:    decimal.RequireFromString("450.00"),
				BulkPrice:       &bulkPrice,
				BulkMinQuantity: 6,
				StockQuantity:   100,
			},
			{
				SizeML:        100,
				RegularPrice:  decimal.RequireFromString("200.00"),
				StockQuantity: 100,
			},
		},
	}
	require.NoError(t, testDB.Create(product).Error)

	productRepo := repository.NewProductRepository(testDB)
	settingService := NewSettingService(repository.NewSettingRepository(testDB))
	cartService := NewCartService(newMemoryCartRepository(), productRepo, settingService)
	orderRepo := repository.NewOrderRepository(testDB)

	client := &stubCheckoutClient{}
	checkoutService := NewCheckoutService(cartService, settingService, orderRepo, client)

	return checkoutService, cartService, client, testDB, product
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	checkoutService, _, _, _, _ := setupCheckoutServiceTest(t)

	_, err := checkoutService.Checkout(context.Background(), "session-1", CheckoutRequest{
		CustomerEmail: "buyer@example.com",
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutService_BuildsSessionAndRecordsOrder(t *testing.T) {
	checkoutService, cartService, client, testDB, product := setupCheckoutServiceTest(t)
	ctx := context.Background()

	_, err := cartService.AddVariant(ctx, "session-1", product.ID, product.Variants[1].ID)
	require.NoError(t, err)

	result, err := checkoutService.Checkout(ctx, "session-1", CheckoutRequest{
		CustomerEmail:   "buyer@example.com",
		CustomerName:    "Thandi M",
		IncludeDelivery: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", result.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_123", result.RedirectURL)

	require.NotNil(t, client.lastRequest)
	require.Len(t, client.lastRequest.LineItems, 2)
	assert.Equal(t, "Amber Oud (100ml)", client.lastRequest.LineItems[0].Name)
	assert.Equal(t, int64(20000), client.lastRequest.LineItems[0].UnitAmount)
	assert.Equal(t, 1, client.lastRequest.LineItems[0].Quantity)
	assert.Equal(t, "Delivery", client.lastRequest.LineItems[1].Name)
	assert.Equal(t, int64(7550), client.lastRequest.LineItems[1].UnitAmount)

	assert.Equal(t, "regular", client.lastRequest.Metadata["customer_type"])
	assert.Equal(t, "true", client.lastRequest.Metadata["includes_delivery"])
	assert.Equal(t, "75.50", client.lastRequest.Metadata["delivery_cost"])
	assert.Equal(t, "200.00", client.lastRequest.Metadata["subtotal"])
	assert.Contains(t, client.lastRequest.Metadata["order_items"], "Amber Oud")

	var order model.Order
	require.NoError(t, testDB.Preload("OrderItems").First(&order, result.OrderID).Error)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "cs_test_123", order.StripeSessionID)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, order.DeliveryCost.Equal(decimal.RequireFromString("75.50")))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("275.50")))
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Amber Oud", order.OrderItems[0].Name)
}

func TestCheckoutService_WithoutDelivery(t *testing.T) {
	checkoutService, cartService, client, _, product := setupCheckoutServiceTest(t)
	ctx := context.Background()

	_, err := cartService.AddVariant(ctx, "session-1", product.ID, product.Variants[1].ID)
	require.NoError(t, err)

	_, err = checkoutService.Checkout(ctx, "session-1", CheckoutRequest{
		CustomerEmail: "buyer@example.com",
	})
	require.NoError(t, err)

	require.Len(t, client.lastRequest.LineItems, 1)
	assert.Equal(t, "false", client.lastRequest.Metadata["includes_delivery"])
	assert.Equal(t, "0.00", client.lastRequest.Metadata["delivery_cost"])
}

func TestCheckoutService_BulkLineNaming(t *testing.T) {
	checkoutService, cartService, client, _, product := setupCheckoutServiceTest(t)
	ctx := context.Background()

	_, err := cartService.SetCustomerType(ctx, "session-1", model.CustomerReseller)
	require.NoError(t, err)
	_, err = cartService.AddVariant(ctx, "session-1", product.ID, product.Variants[0].ID)
	require.NoError(t, err)
	_, err = cartService.ChangeQuantity(ctx, "session-1", product.Variants[0].ID, 5)
	require.NoError(t, err)

	_, err = checkoutService.Checkout(ctx, "session-1", CheckoutRequest{
		CustomerEmail: "reseller@example.com",
	})
	require.NoError(t, err)

	require.Len(t, client.lastRequest.LineItems, 1)
	assert.Equal(t, "Amber Oud (50ml) - Bulk Price", client.lastRequest.LineItems[0].Name)
	assert.Equal(t, int64(38000), client.lastRequest.LineItems[0].UnitAmount)
	assert.Equal(t, 6, client.lastRequest.LineItems[0].Quantity)
	assert.Equal(t, "reseller", client.lastRequest.Metadata["customer_type"])
}

func TestCheckoutService_PaymentFailure(t *testing.T) {
	checkoutService, cartService, client, testDB, product := setupCheckoutServiceTest(t)
	ctx := context.Background()
	client.err = stripe.ErrPaymentFailed

	_, err := cartService.AddVariant(ctx, "session-1", product.ID, product.Variants[1].ID)
	require.NoError(t, err)

	_, err = checkoutService.Checkout(ctx, "session-1", CheckoutRequest{
		CustomerEmail: "buyer@example.com",
	})
	assert.ErrorIs(t, err, ErrCheckoutFailed)

	var count int64
	testDB.Model(&model.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestToMinorUnits_Rounding(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"450.00", 45000},
		{"75.50", 7550},
		{"0.005", 1},
		{"0.004", 0},
		{"99.995", 10000},
	}

	for _, tt := range tests {
		got := toMinorUnits(decimal.RequireFromString(tt.amount))
		assert.Equal(t, tt.want, got, "amount %s", tt.amount)
	}
}
