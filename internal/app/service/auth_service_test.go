package service

import (
	"testing"
	"time"

	"github.com/essence-za/essence-backend/config"
	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/internal/app/repository"
	"github.com/essence-za/essence-backend/internal/db"
	"github.com/essence-za/essence-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) AuthService {
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
	return NewAuthService(repository.NewUserRepository(testDB), jwtCfg)
}

func TestAuthService_Login_Success(t *testing.T) {
	authService := setupAuthServiceTest(t)

	token, user, err := authService.Login("admin@essence.co.za", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin@essence.co.za", user.Email)

	claims, err := util.ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(model.RoleAdmin), claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Login("admin@essence.co.za", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Login("nobody@essence.co.za", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
