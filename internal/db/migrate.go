package db

import (
	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/pkg/logger"
	"github.com/essence-za/essence-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Setting{},
		&model.Order{},
		&model.OrderItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedDefaultSettings(); err != nil {
		logger.Error("Failed to seed default settings during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// seedDefaultSettings inserts the settings the cart depends on, without
// overwriting values an admin may already have changed.
func seedDefaultSettings() error {
	defaults := map[string]string{
		model.SettingDeliveryCost:        "0",
		model.SettingBulkDiscountEnabled: "true",
	}

	for key, value := range defaults {
		var count int64
		if err := DB.Model(&model.Setting{}).Where("key = ?", key).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&model.Setting{Key: key, Value: value}).Error; err != nil {
			return err
		}
		logger.Info("Seeded default setting", map[string]interface{}{
			"key":   key,
			"value": value,
		})
	}
	return nil
}

// SeedAdminUser creates the initial admin account when credentials are
// configured and no account with that email exists yet.
func SeedAdminUser(email, password string) error {
	if email == "" || password == "" {
		logger.Info("No admin credentials configured, skipping admin seed")
		return nil
	}

	var count int64
	if err := DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Admin user already exists, skipping admin seed", map[string]interface{}{
			"email": email,
		})
		return nil
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
	}
	if err := DB.Create(admin).Error; err != nil {
		return err
	}

	logger.Info("Admin user seeded successfully", map[string]interface{}{
		"email": email,
	})
	return nil
}
