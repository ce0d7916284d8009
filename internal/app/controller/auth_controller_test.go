package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/essence-za/essence-backend/config"
	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/internal/app/repository"
	"github.com/essence-za/essence-backend/internal/app/service"
	"github.com/essence-za/essence-backend/internal/db"
	"github.com/essence-za/essence-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthControllerTest(t *testing.T) *gin.Engine {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	hash, err := util.HashPassword("correct-horse")
	require.NoError(t, err)
	require.NoError(t, testDB.Create(&model.User{
		Email:        "admin@essence.co.za",
		PasswordHash: hash,
		Name:         "Store Admin",
		Role:         model.RoleAdmin,
	}).Error)

	jwtCfg := &config.JWTConfig{Secret: "test-secret", TokenExpiry: time.Hour}
	authService := service.NewAuthService(repository.NewUserRepository(testDB), jwtCfg)
	authController := NewAuthController(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", authController.Login)

	return router
}

func TestAuthController_Login_Success(t *testing.T) {
	router := setupAuthControllerTest(t)

	body, _ := json.Marshal(LoginRequest{
		Email:    "admin@essence.co.za",
		Password: "correct-horse",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response["token"])
	// The password hash never leaves the server
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	router := setupAuthControllerTest(t)

	body, _ := json.Marshal(LoginRequest{
		Email:    "admin@essence.co.za",
		Password: "wrong",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
}

func TestAuthController_Login_MissingFields(t *testing.T) {
	router := setupAuthControllerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
