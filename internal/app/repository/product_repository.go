package repository

import (
	"strings"
	"time"

	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductFilter struct {
	// InStockOnly keeps only products with at least one variant with
	// positive stock.
	InStockOnly bool
	NewArrivals bool
	Search      string
	Limit       int
	Offset      int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	Update(product *model.Product) error
	ReplaceVariants(productID uint, variants []model.ProductVariant) error
	Delete(id uint) error
	FindVariantByID(variantID uint) (*model.ProductVariant, error)
	ClearExpiredNewArrivals(olderThan time.Time) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":     product.Name,
		"variants": len(product.Variants),
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) FindAll(filter ProductFilter) ([]model.Product, error) {
	query := r.db.Model(&model.Product{}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variants.size_ml ASC")
		}).
		Order("products.created_at DESC")

	if filter.InStockOnly {
		query = query.Where(
			"EXISTS (SELECT 1 FROM product_variants pv WHERE pv.product_id = products.id AND pv.stock_quantity > 0 AND pv.deleted_at IS NULL)",
		)
	}
	if filter.NewArrivals {
		query = query.Where("is_new_arrival = ?", true)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err)
		return nil, err
	}

	logger.Debug("Products found in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("product_variants.size_ml ASC")
	}).First(&product, id).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	err := r.db.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":           product.Name,
			"description":    product.Description,
			"image_url":      product.ImageURL,
			"is_new_arrival": product.IsNewArrival,
		}).Error
	if err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

// ReplaceVariants swaps a product's variant list wholesale inside one
// transaction. The admin panel edits variants as a set, not row by row.
func (r *productRepository) ReplaceVariants(productID uint, variants []model.ProductVariant) error {
	logger.Debug("Replacing product variants in database", map[string]interface{}{
		"product_id": productID,
		"variants":   len(variants),
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("product_id = ?", productID).Delete(&model.ProductVariant{}).Error; err != nil {
			logger.Error("Failed to delete existing variants", err, map[string]interface{}{
				"product_id": productID,
			})
			return err
		}

		for i := range variants {
			variants[i].ID = 0
			variants[i].ProductID = productID
		}
		if len(variants) == 0 {
			return nil
		}
		if err := tx.Create(&variants).Error; err != nil {
			logger.Error("Failed to insert replacement variants", err, map[string]interface{}{
				"product_id": productID,
			})
			return err
		}
		return nil
	})
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Product{}, id).Error; err != nil {
			logger.Error("Failed to delete product from database", err, map[string]interface{}{
				"product_id": id,
			})
			return err
		}
		return nil
	})
}

func (r *productRepository) FindVariantByID(variantID uint) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.First(&variant, variantID).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// ClearExpiredNewArrivals drops the new-arrival flag from products created
// before the cutoff. Returns the number of rows changed.
func (r *productRepository) ClearExpiredNewArrivals(olderThan time.Time) (int64, error) {
	result := r.db.Model(&model.Product{}).
		Where("is_new_arrival = ? AND created_at < ?", true, olderThan).
		Update("is_new_arrival", false)
	if result.Error != nil {
		logger.Error("Failed to clear expired new arrivals", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
