package service

import (
	"errors"

	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/internal/app/repository"
	"github.com/essence-za/essence-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidVariant  = errors.New("invalid product variant")
)

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(id uint, product *model.Product) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(filter)
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(product *model.Product) error {
	if err := validateVariants(product.Variants); err != nil {
		return err
	}

	if err := s.productRepo.Create(product); err != nil {
		return err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"variants":   len(product.Variants),
	})
	return nil
}

// UpdateProduct replaces the product's fields and its entire variant set.
// Variants are not patched individually, the submitted set becomes the
// catalog's set.
func (s *productService) UpdateProduct(id uint, product *model.Product) (*model.Product, error) {
	if err := validateVariants(product.Variants); err != nil {
		return nil, err
	}

	existing, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.ImageURL = product.ImageURL
	existing.IsNewArrival = product.IsNewArrival

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}
	if err := s.productRepo.ReplaceVariants(id, product.Variants); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
		"variants":   len(product.Variants),
	})
	return s.GetProduct(id)
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func validateVariants(variants []model.ProductVariant) error {
	if len(variants) == 0 {
		return ErrInvalidVariant
	}

	sizes := make(map[int]bool, len(variants))
	for i := range variants {
		v := &variants[i]
		if v.SizeML <= 0 {
			return ErrInvalidVariant
		}
		if sizes[v.SizeML] {
			return ErrInvalidVariant
		}
		sizes[v.SizeML] = true

		if v.RegularPrice.IsNegative() || v.StockQuantity < 0 {
			return ErrInvalidVariant
		}
		if v.BulkPrice != nil {
			if v.BulkPrice.IsNegative() || v.BulkPrice.GreaterThan(v.RegularPrice) {
				return ErrInvalidVariant
			}
			if v.BulkMinQuantity <= 0 {
				return ErrInvalidVariant
			}
		}
	}
	return nil
}
