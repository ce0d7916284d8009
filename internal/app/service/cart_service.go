package service

import (
	"context"
	"errors"

	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/internal/app/repository"
	"github.com/essence-za/essence-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidCustomerType = errors.New("invalid customer type")
)

// CartService manages session carts. Mutations follow the no-op contract
// for invalid selections: adding an unknown or out-of-stock variant and
// changing the quantity of an absent line leave the cart unchanged rather
// than failing, since the storefront disables those affordances.
type CartService interface {
	GetCart(ctx context.Context, token string) (*model.Cart, error)
	AddVariant(ctx context.Context, token string, productID, variantID uint) (*model.Cart, error)
	ChangeQuantity(ctx context.Context, token string, variantID uint, delta int) (*model.Cart, error)
	RemoveVariant(ctx context.Context, token string, variantID uint) (*model.Cart, error)
	SetCustomerType(ctx context.Context, token string, customerType model.CustomerType) (*model.Cart, error)
	ClearCart(ctx context.Context, token string) error
}

type cartService struct {
	cartRepo       repository.CartRepository
	productRepo    repository.ProductRepository
	settingService SettingService
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	settingService SettingService,
) CartService {
	return &cartService{
		cartRepo:       cartRepo,
		productRepo:    productRepo,
		settingService: settingService,
	}
}

func (s *cartService) GetCart(ctx context.Context, token string) (*model.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return model.NewCart(), nil
	}
	return cart, nil
}

func (s *cartService) AddVariant(ctx context.Context, token string, productID, variantID uint) (*model.Cart, error) {
	logger.Debug("Adding variant to cart", map[string]interface{}{
		"token":      token,
		"product_id": productID,
		"variant_id": variantID,
	})

	cart, err := s.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return cart, nil
		}
		return nil, err
	}

	variant := product.VariantByID(variantID)
	if variant == nil || variant.StockQuantity == 0 {
		logger.Warn("Cannot add to cart: variant unselectable", map[string]interface{}{
			"product_id": productID,
			"variant_id": variantID,
		})
		return cart, nil
	}

	settings, err := s.settingService.GetSettings()
	if err != nil {
		return nil, err
	}

	next := addLine(cart, product, variant, settings.BulkDiscountEnabled())
	if err := s.cartRepo.Save(ctx, token, next); err != nil {
		return nil, err
	}

	logger.Info("Variant added to cart", map[string]interface{}{
		"token":      token,
		"variant_id": variantID,
		"lines":      len(next.Items),
	})
	return next, nil
}

func (s *cartService) ChangeQuantity(ctx context.Context, token string, variantID uint, delta int) (*model.Cart, error) {
	logger.Debug("Changing cart line quantity", map[string]interface{}{
		"token":      token,
		"variant_id": variantID,
		"delta":      delta,
	})

	cart, err := s.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}

	idx := cart.LineIndex(variantID)
	if idx < 0 {
		logger.Warn("Cannot change quantity: line not in cart", map[string]interface{}{
			"variant_id": variantID,
		})
		return cart, nil
	}

	newQuantity := cart.Items[idx].Quantity + delta
	var next *model.Cart
	if newQuantity <= 0 {
		// Lines never hold a zero or negative quantity
		next = removeLine(cart, variantID)
	} else {
		// Look up the variant fresh so price changes made elsewhere in the
		// session are honored on recompute.
		variant, err := s.productRepo.FindVariantByID(variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Cannot change quantity: variant no longer in catalog", map[string]interface{}{
					"variant_id": variantID,
				})
				return cart, nil
			}
			return nil, err
		}

		settings, err := s.settingService.GetSettings()
		if err != nil {
			return nil, err
		}

		next = setLineQuantity(cart, idx, newQuantity, variant, settings.BulkDiscountEnabled())
	}

	if err := s.cartRepo.Save(ctx, token, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *cartService) RemoveVariant(ctx context.Context, token string, variantID uint) (*model.Cart, error) {
	cart, err := s.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}

	next := removeLine(cart, variantID)
	if err := s.cartRepo.Save(ctx, token, next); err != nil {
		return nil, err
	}

	logger.Info("Variant removed from cart", map[string]interface{}{
		"token":      token,
		"variant_id": variantID,
		"lines":      len(next.Items),
	})
	return next, nil
}

// SetCustomerType switches the session classification and reprices every
// line against the live catalog and settings.
func (s *cartService) SetCustomerType(ctx context.Context, token string, customerType model.CustomerType) (*model.Cart, error) {
	if !customerType.Valid() {
		return nil, ErrInvalidCustomerType
	}

	cart, err := s.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingService.GetSettings()
	if err != nil {
		return nil, err
	}

	next := cart.Clone()
	next.CustomerType = customerType
	for i := range next.Items {
		variant, err := s.productRepo.FindVariantByID(next.Items[i].VariantID)
		if err != nil {
			// Variant dropped from the catalog mid-session; keep the line's
			// last computed price.
			continue
		}
		next.Items[i].UnitPrice, next.Items[i].IsBulkPrice = EffectivePrice(
			variant, next.Items[i].Quantity, customerType, settings.BulkDiscountEnabled(),
		)
	}

	if err := s.cartRepo.Save(ctx, token, next); err != nil {
		return nil, err
	}

	logger.Info("Cart customer type updated", map[string]interface{}{
		"token":         token,
		"customer_type": customerType,
	})
	return next, nil
}

func (s *cartService) ClearCart(ctx context.Context, token string) error {
	return s.cartRepo.Delete(ctx, token)
}

// addLine returns a new cart with the variant added: an existing line is
// incremented and repriced at its new quantity, otherwise a line with
// quantity 1 is appended. Display fields are frozen from the product and
// variant as they are now.
func addLine(cart *model.Cart, product *model.Product, variant *model.ProductVariant, bulkEnabled bool) *model.Cart {
	next := cart.Clone()

	if i := next.LineIndex(variant.ID); i >= 0 {
		line := next.Items[i]
		line.Quantity++
		line.UnitPrice, line.IsBulkPrice = EffectivePrice(variant, line.Quantity, next.CustomerType, bulkEnabled)
		next.Items[i] = line
		return next
	}

	price, bulk := EffectivePrice(variant, 1, next.CustomerType, bulkEnabled)
	next.Items = append(next.Items, model.CartLine{
		VariantID:   variant.ID,
		ProductID:   product.ID,
		Name:        product.Name,
		SizeML:      variant.SizeML,
		ImageURL:    product.ImageURL,
		Quantity:    1,
		UnitPrice:   price,
		IsBulkPrice: bulk,
	})
	return next
}

// setLineQuantity returns a new cart with the line at idx repriced for its
// new quantity.
func setLineQuantity(cart *model.Cart, idx, quantity int, variant *model.ProductVariant, bulkEnabled bool) *model.Cart {
	next := cart.Clone()
	line := next.Items[idx]
	line.Quantity = quantity
	line.UnitPrice, line.IsBulkPrice = EffectivePrice(variant, quantity, next.CustomerType, bulkEnabled)
	next.Items[idx] = line
	return next
}

// removeLine returns a new cart without the given variant's line. Removing
// an absent line is a no-op.
func removeLine(cart *model.Cart, variantID uint) *model.Cart {
	next := cart.Clone()
	if i := next.LineIndex(variantID); i >= 0 {
		next.Items = append(next.Items[:i], next.Items[i+1:]...)
	}
	return next
}

// Subtotal sums unit price times quantity over all cart lines
func Subtotal(cart *model.Cart) decimal.Decimal {
	total := decimal.Zero
	for i := range cart.Items {
		lineTotal := cart.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(cart.Items[i].Quantity)))
		total = total.Add(lineTotal)
	}
	return total
}

// DeliveryCost returns the configured delivery cost when delivery is
// requested, and exactly zero otherwise.
func DeliveryCost(includeDelivery bool, settings model.Settings) decimal.Decimal {
	if !includeDelivery {
		return decimal.Zero
	}
	return settings.DeliveryCost()
}

// Total is the cart subtotal plus delivery
func Total(cart *model.Cart, includeDelivery bool, settings model.Settings) decimal.Decimal {
	return Subtotal(cart).Add(DeliveryCost(includeDelivery, settings))
}

// CheckoutLines projects the cart into the payload handed to the payment
// collaborator, preserving insertion order.
func CheckoutLines(cart *model.Cart) []model.CheckoutLine {
	lines := make([]model.CheckoutLine, 0, len(cart.Items))
	for i := range cart.Items {
		item := cart.Items[i]
		lines = append(lines, model.CheckoutLine{
			VariantID:   item.VariantID,
			Name:        item.Name,
			SizeML:      item.SizeML,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			IsBulkPrice: item.IsBulkPrice,
		})
	}
	return lines
}
