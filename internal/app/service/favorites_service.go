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

// FavoritesService mutates a state owner's favorites set.
type FavoritesService interface {
	GetFavorites(ctx context.Context, owner string) (model.FavoritesList, error)
	// Toggle adds the key when absent and removes it when present,
	// reporting whether the item is favorited afterwards.
	Toggle(ctx context.Context, owner, productID, variantID string) (bool, model.FavoritesList, error)
	Remove(ctx context.Context, owner, productID, variantID string) (model.FavoritesList, error)
}

type favoritesService struct {
	stateRepo   repository.StateRepository
	productRepo repository.ProductRepository
}

func NewFavoritesService(stateRepo repository.StateRepository, productRepo repository.ProductRepository) FavoritesService {
	return &favoritesService{
		stateRepo:   stateRepo,
		productRepo: productRepo,
	}
}

func (s *favoritesService) GetFavorites(ctx context.Context, owner string) (model.FavoritesList, error) {
	logger.Debug("Fetching favorites", map[string]interface{}{
		"owner": owner,
	})

	favorites, err := s.stateRepo.LoadFavorites(ctx, owner)
	if err != nil {
		logger.Error("Failed to fetch favorites", err, map[string]interface{}{
			"owner": owner,
		})
		return nil, err
	}

	logger.Info("Favorites fetched successfully", map[string]interface{}{
		"owner": owner,
		"count": len(favorites),
	})
	return favorites, nil
}

func (s *favoritesService) Toggle(ctx context.Context, owner, productID, variantID string) (bool, model.FavoritesList, error) {
	logger.Info("Toggling favorite", map[string]interface{}{
		"owner":      owner,
		"product_id": productID,
		"variant_id": variantID,
	})

	if _, err := s.productRepo.FindBySlug(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot toggle favorite: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return false, nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for favorites", err, map[string]interface{}{
			"product_id": productID,
		})
		return false, nil, err
	}

	favorites, err := s.stateRepo.LoadFavorites(ctx, owner)
	if err != nil {
		return false, nil, err
	}

	key := itemkey.Encode(productID, variantID)
	favorited := !favorites.Contains(key)
	if favorited {
		favorites = append(favorites, key)
	} else {
		favorites = removeKey(favorites, key)
	}

	if err := s.stateRepo.SaveFavorites(ctx, owner, favorites); err != nil {
		logger.Error("Failed to persist favorites", err, map[string]interface{}{
			"owner": owner,
			"key":   key,
		})
		return false, nil, err
	}

	logger.Info("Favorite toggled", map[string]interface{}{
		"owner":     owner,
		"key":       key,
		"favorited": favorited,
	})
	return favorited, favorites, nil
}

func (s *favoritesService) Remove(ctx context.Context, owner, productID, variantID string) (model.FavoritesList, error) {
	logger.Info("Removing favorite", map[string]interface{}{
		"owner":      owner,
		"product_id": productID,
		"variant_id": variantID,
	})

	favorites, err := s.stateRepo.LoadFavorites(ctx, owner)
	if err != nil {
		return nil, err
	}

	key := itemkey.Encode(productID, variantID)
	favorites = removeKey(favorites, key)

	if err := s.stateRepo.SaveFavorites(ctx, owner, favorites); err != nil {
		logger.Error("Failed to persist favorites", err, map[string]interface{}{
			"owner": owner,
			"key":   key,
		})
		return nil, err
	}
	return favorites, nil
}

func removeKey(favorites model.FavoritesList, key string) model.FavoritesList {
	filtered := make(model.FavoritesList, 0, len(favorites))
	for _, k := range favorites {
		if k != key {
			filtered = append(filtered, k)
		}
	}
	return filtered
}
