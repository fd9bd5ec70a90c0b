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

var ErrOneClickEmpty = errors.New("one-click record is empty")

// OneClickService manages the single-item express checkout record. At most
// one item is held per owner; completing or cancelling the flow clears it.
type OneClickService interface {
	Get(ctx context.Context, owner string) (*model.OneClickRecord, error)
	Set(ctx context.Context, owner, productID string, quantity int, variantID string) (*model.OneClickRecord, error)
	Clear(ctx context.Context, owner string) error
}

type oneClickService struct {
	stateRepo   repository.StateRepository
	productRepo repository.ProductRepository
}

func NewOneClickService(stateRepo repository.StateRepository, productRepo repository.ProductRepository) OneClickService {
	return &oneClickService{
		stateRepo:   stateRepo,
		productRepo: productRepo,
	}
}

func (s *oneClickService) Get(ctx context.Context, owner string) (*model.OneClickRecord, error) {
	record, err := s.stateRepo.LoadOneClick(ctx, owner)
	if err != nil {
		logger.Error("Failed to fetch one-click record", err, map[string]interface{}{
			"owner": owner,
		})
		return nil, err
	}
	return record, nil
}

func (s *oneClickService) Set(ctx context.Context, owner, productID string, quantity int, variantID string) (*model.OneClickRecord, error) {
	logger.Info("Setting one-click record", map[string]interface{}{
		"owner":      owner,
		"product_id": productID,
		"variant_id": variantID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindBySlug(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot set one-click: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for one-click", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	key := itemkey.New(productID, variantID)
	if !key.IsBase() && product.VariantBySlug(key.VariantID) == nil {
		return nil, ErrVariantNotFound
	}

	record := &model.OneClickRecord{ID: key.String(), Qty: quantity}
	if err := s.stateRepo.SaveOneClick(ctx, owner, record); err != nil {
		logger.Error("Failed to persist one-click record", err, map[string]interface{}{
			"owner": owner,
			"key":   record.ID,
		})
		return nil, err
	}

	logger.Info("One-click record set", map[string]interface{}{
		"owner": owner,
		"key":   record.ID,
	})
	return record, nil
}

func (s *oneClickService) Clear(ctx context.Context, owner string) error {
	logger.Info("Clearing one-click record", map[string]interface{}{
		"owner": owner,
	})

	if err := s.stateRepo.SaveOneClick(ctx, owner, nil); err != nil {
		logger.Error("Failed to clear one-click record", err, map[string]interface{}{
			"owner": owner,
		})
		return err
	}
	return nil
}
