package controller

import (
	"net/http"

	apierrors "github.com/essence-za/essence-backend/internal/errors"

	"github.com/essence-za/essence-backend/internal/middleware"
	"github.com/essence-za/essence-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	imageStorage *storage.ImageStorage
}

func NewUploadController(imageStorage *storage.ImageStorage) *UploadController {
	return &UploadController{
		imageStorage: imageStorage,
	}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignProductImage returns a pre-signed upload URL for a product image
// POST /api/v1/admin/uploads/product-image
func (ctrl *UploadController) PresignProductImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "filename and content_type are required")
		return
	}

	upload, err := ctrl.imageStorage.PresignProductImage(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		log.Warn("Failed to presign product image upload", map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"error":        err.Error(),
		})
		apierrors.BadRequest(c, apierrors.UploadInvalidFileType, "Unsupported image type")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload": upload,
	})
}
