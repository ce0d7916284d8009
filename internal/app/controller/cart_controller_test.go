package controller

import (
	"bytes"
	"context"
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
)

// memCartRepo is an in-memory stand-in for the Redis cart store
type memCartRepo struct {
	carts map[string]*model.Cart
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: make(map[string]*model.Cart)}
}

func (r *memCartRepo) Get(_ context.Context, token string) (*model.Cart, error) {
	cart, ok := r.carts[token]
	if !ok {
		return nil, nil
	}
	return cart.Clone(), nil
}

func (r *memCartRepo) Save(_ context.Context, token string, cart *model.Cart) error {
	r.carts[token] = cart.Clone()
	return nil
}

func (r *memCartRepo) Delete(_ context.Context, token string) error {
	delete(r.carts, token)
	return nil
}

func setupCartControllerTest(t *testing.T) (*gin.Engine, *model.Product) {
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
		},
	}
	require.NoError(t, testDB.Create(product).Error)

	productRepo := repository.NewProductRepository(testDB)
	settingService := service.NewSettingService(repository.NewSettingRepository(testDB))
	cartService := service.NewCartService(newMemCartRepo(), productRepo, settingService)
	cartController := NewCartController(cartService, settingService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/cart", cartController.GetCart)
	router.POST("/cart/items", cartController.AddItem)
	router.PUT("/cart/items/:variant_id", cartController.ChangeQuantity)
	router.DELETE("/cart/items/:variant_id", cartController.RemoveItem)
	router.PUT("/cart/customer-type", cartController.SetCustomerType)

	return router, product
}

func TestCartController_GetCart_IssuesSessionToken(t *testing.T) {
	router, _ := setupCartControllerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(SessionTokenHeader))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response["session_token"])
}

func TestCartController_AddItem(t *testing.T) {
	router, product := setupCartControllerTest(t)

	body, _ := json.Marshal(AddItemRequest{
		ProductID: product.ID,
		VariantID: product.Variants[0].ID,
	})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionTokenHeader, "session-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		SessionToken string     `json:"session_token"`
		Cart         model.Cart `json:"cart"`
		Subtotal     string     `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "session-1", response.SessionToken)
	require.Len(t, response.Cart.Items, 1)
	assert.Equal(t, 1, response.Cart.Items[0].Quantity)
	assert.Equal(t, "450", response.Subtotal)
}

func TestCartController_AddItem_UnknownVariantKeepsCartUnchanged(t *testing.T) {
	router, product := setupCartControllerTest(t)

	body, _ := json.Marshal(AddItemRequest{ProductID: product.ID, VariantID: 9999})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionTokenHeader, "session-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Cart model.Cart `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response.Cart.Items)
}

func TestCartController_ChangeQuantityAndRemove(t *testing.T) {
	router, product := setupCartControllerTest(t)
	variantID := product.Variants[0].ID

	addBody, _ := json.Marshal(AddItemRequest{ProductID: product.ID, VariantID: variantID})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(addBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionTokenHeader, "session-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	changeBody, _ := json.Marshal(ChangeQuantityRequest{Delta: 2})
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/cart/items/%d", variantID), bytes.NewReader(changeBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionTokenHeader, "session-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Cart model.Cart `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Cart.Items, 1)
	assert.Equal(t, 3, response.Cart.Items[0].Quantity)

	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/cart/items/%d", variantID), nil)
	req.Header.Set(SessionTokenHeader, "session-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response.Cart.Items)
}

func TestCartController_SetCustomerType(t *testing.T) {
	router, _ := setupCartControllerTest(t)

	body, _ := json.Marshal(CustomerTypeRequest{CustomerType: model.CustomerReseller})
	req := httptest.NewRequest(http.MethodPut, "/cart/customer-type", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionTokenHeader, "session-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Cart model.Cart `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, model.CustomerReseller, response.Cart.CustomerType)
}

func TestCartController_SetCustomerType_Invalid(t *testing.T) {
	router, _ := setupCartControllerTest(t)

	body := []byte(`{"customer_type":"wholesale"}`)
	req := httptest.NewRequest(http.MethodPut, "/cart/customer-type", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionTokenHeader, "session-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CART_INVALID_CUSTOMER_TYPE")
}
