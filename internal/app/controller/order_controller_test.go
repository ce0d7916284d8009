package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/internal/app/repository"
	"github.com/essence-za/essence-backend/internal/app/service"
	"github.com/essence-za/essence-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderService := service.NewOrderService(repository.NewOrderRepository(testDB))
	orderController := NewOrderController(orderService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/orders", orderController.ListOrders)
	router.GET("/orders/:id", orderController.GetOrder)
	router.PUT("/orders/:id/status", orderController.UpdateOrderStatus)

	return router, testDB
}

func createTestOrder(t *testing.T, testDB *gorm.DB) *model.Order {
	order := &model.Order{
		CustomerEmail:   "buyer@example.com",
		CustomerName:    "Thandi M",
		CustomerType:    model.CustomerRegular,
		Subtotal:        decimal.RequireFromString("450.00"),
		DeliveryCost:    decimal.RequireFromString("75.50"),
		TotalAmount:     decimal.RequireFromString("525.50"),
		Status:          model.OrderStatusPending,
		StripeSessionID: "cs_test_123",
		OrderItems: []model.OrderItem{
			{VariantID: 1, ProductID: 1, Name: "Amber Oud", SizeML: 50, Quantity: 1, UnitPrice: decimal.RequireFromString("450.00")},
		},
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}

func TestOrderController_ListOrders(t *testing.T) {
	router, testDB := setupOrderControllerTest(t)
	createTestOrder(t, testDB)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestOrderController_GetOrder(t *testing.T) {
	router, testDB := setupOrderControllerTest(t)
	order := createTestOrder(t, testDB)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "buyer@example.com")
}

func TestOrderController_GetOrder_NotFound(t *testing.T) {
	router, _ := setupOrderControllerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/orders/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ORDER_NOT_FOUND")
}

func TestOrderController_UpdateOrderStatus(t *testing.T) {
	router, testDB := setupOrderControllerTest(t)
	order := createTestOrder(t, testDB)

	body, _ := json.Marshal(UpdateOrderStatusRequest{Status: model.OrderStatusPaid})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/orders/%d/status", order.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated model.Order
	require.NoError(t, testDB.First(&updated, order.ID).Error)
	assert.Equal(t, model.OrderStatusPaid, updated.Status)
}

func TestOrderController_UpdateOrderStatus_Invalid(t *testing.T) {
	router, testDB := setupOrderControllerTest(t)
	order := createTestOrder(t, testDB)

	body := []byte(`{"status":"shipped"}`)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/orders/%d/status", order.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ORDER_INVALID_STATUS")
}
