package controller

import (
	"errors"
	"net/http"

	apierrors "github.com/essence-za/essence-backend/internal/errors"

	"github.com/essence-za/essence-backend/internal/app/service"
	"github.com/essence-za/essence-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type SettingController struct {
	settingService service.SettingService
}

func NewSettingController(settingService service.SettingService) *SettingController {
	return &SettingController{
		settingService: settingService,
	}
}

// GetSettings returns the store settings the storefront needs
// GET /api/v1/settings
func (ctrl *SettingController) GetSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	settings, err := ctrl.settingService.GetSettings()
	if err != nil {
		log.Error("Failed to fetch settings", err, nil)
		apierrors.InternalError(c, "Failed to fetch settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": gin.H{
			"delivery_cost":         settings.DeliveryCost(),
			"bulk_discount_enabled": settings.BulkDiscountEnabled(),
		},
	})
}

// UpdateSettings validates and stores admin setting changes
// PUT /api/v1/admin/settings
func (ctrl *SettingController) UpdateSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	settings, err := ctrl.settingService.UpdateSettings(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownSettingKey):
			apierrors.BadRequest(c, apierrors.SettingUnknownKey, "Unknown setting key")
		case errors.Is(err, service.ErrInvalidSettingValue):
			apierrors.BadRequest(c, apierrors.SettingInvalidValue, "Invalid setting value")
		default:
			log.Error("Failed to update settings", err, nil)
			apierrors.InternalError(c, "Failed to update settings")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Settings updated successfully",
		"settings": gin.H{
			"delivery_cost":         settings.DeliveryCost(),
			"bulk_discount_enabled": settings.BulkDiscountEnabled(),
		},
	})
}
