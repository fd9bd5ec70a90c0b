package service

import (
	"context"
	"errors"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/repository"
	"github.com/dsaidov/mebelplaza-backend/pkg/itemkey"
	"github.com/dsaidov/mebelplaza-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("invalid quantity")
)

// CartService mutates a state owner's cart snapshot. Every mutation
// persists the whole snapshot; loads run the legacy-shape migration.
type CartService interface {
	GetCart(ctx context.Context, owner string) (model.CartSnapshot, error)
	AddToCart(ctx context.Context, owner, productID string, quantity int, variantID string) (model.CartSnapshot, error)
	SetQuantity(ctx context.Context, owner, productID string, quantity int, variantID string) (model.CartSnapshot, error)
	RemoveFromCart(ctx context.Context, owner, productID, variantID string) (model.CartSnapshot, error)
	ClearCart(ctx context.Context, owner string) error
}

type cartService struct {
	stateRepo   repository.StateRepository
	productRepo repository.ProductRepository
}

func NewCartService(stateRepo repository.StateRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		stateRepo:   stateRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetCart(ctx context.Context, owner string) (model.CartSnapshot, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"owner": owner,
	})

	cart, err := s.stateRepo.LoadCart(ctx, owner)
	if err != nil {
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"owner": owner,
		})
		return nil, err
	}

	logger.Info("Cart fetched successfully", map[string]interface{}{
		"owner": owner,
		"count": len(cart),
	})
	return cart, nil
}

func (s *cartService) AddToCart(ctx context.Context, owner, productID string, quantity int, variantID string) (model.CartSnapshot, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"owner":      owner,
		"product_id": productID,
		"variant_id": variantID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if err := s.resolveItem(productID, variantID); err != nil {
		return nil, err
	}

	cart, err := s.stateRepo.LoadCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	key := itemkey.Encode(productID, variantID)
	cart[key] += quantity

	if err := s.stateRepo.SaveCart(ctx, owner, cart); err != nil {
		logger.Error("Failed to persist cart", err, map[string]interface{}{
			"owner": owner,
			"key":   key,
		})
		return nil, err
	}

	logger.Info("Cart item added successfully", map[string]interface{}{
		"owner":    owner,
		"key":      key,
		"quantity": cart[key],
	})
	return cart, nil
}

// SetQuantity sets an entry's quantity outright; zero or negative removes
// the entry entirely.
func (s *cartService) SetQuantity(ctx context.Context, owner, productID string, quantity int, variantID string) (model.CartSnapshot, error) {
	logger.Info("Setting cart item quantity", map[string]interface{}{
		"owner":      owner,
		"product_id": productID,
		"variant_id": variantID,
		"quantity":   quantity,
	})

	cart, err := s.stateRepo.LoadCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	key := itemkey.Encode(productID, variantID)
	if quantity <= 0 {
		delete(cart, key)
	} else {
		if err := s.resolveItem(productID, variantID); err != nil {
			return nil, err
		}
		cart[key] = quantity
	}

	if err := s.stateRepo.SaveCart(ctx, owner, cart); err != nil {
		logger.Error("Failed to persist cart", err, map[string]interface{}{
			"owner": owner,
			"key":   key,
		})
		return nil, err
	}
	return cart, nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, owner, productID, variantID string) (model.CartSnapshot, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"owner":      owner,
		"product_id": productID,
		"variant_id": variantID,
	})

	cart, err := s.stateRepo.LoadCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	key := itemkey.Encode(productID, variantID)
	if _, exists := cart[key]; !exists {
		logger.Warn("Cart item not found for removal", map[string]interface{}{
			"owner": owner,
			"key":   key,
		})
		return nil, ErrCartItemNotFound
	}
	delete(cart, key)

	if err := s.stateRepo.SaveCart(ctx, owner, cart); err != nil {
		logger.Error("Failed to persist cart", err, map[string]interface{}{
			"owner": owner,
			"key":   key,
		})
		return nil, err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"owner": owner,
		"key":   key,
	})
	return cart, nil
}

func (s *cartService) ClearCart(ctx context.Context, owner string) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"owner": owner,
	})

	if err := s.stateRepo.SaveCart(ctx, owner, model.CartSnapshot{}); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"owner": owner,
		})
		return err
	}

	logger.Info("Cart cleared", map[string]interface{}{
		"owner": owner,
	})
	return nil
}

// resolveItem verifies the (product, variant) pair exists in the catalog
// before it enters the cart.
func (s *cartService) resolveItem(productID, variantID string) error {
	product, err := s.productRepo.FindBySlug(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot mutate cart: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product for cart", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	key := itemkey.New(productID, variantID)
	if !key.IsBase() && product.VariantBySlug(key.VariantID) == nil {
		logger.Warn("Cannot mutate cart: variant not found", map[string]interface{}{
			"product_id": productID,
			"variant_id": key.VariantID,
		})
		return ErrVariantNotFound
	}
	return nil
}
