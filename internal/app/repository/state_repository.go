package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Snapshots live for 90 days after the last mutation, matching how long a
// guest cart should survive between visits.
const stateTTL = 90 * 24 * time.Hour

// StateRepository persists per-owner storefront state (cart, favorites,
// one-click) as JSON snapshots. Loads are total: missing or malformed data
// degrades to the empty collection instead of surfacing a parse error.
// Writes are last-write-wins; exactly one logical writer mutates an
// owner's state.
type StateRepository interface {
	LoadCart(ctx context.Context, owner string) (model.CartSnapshot, error)
	SaveCart(ctx context.Context, owner string, cart model.CartSnapshot) error
	LoadFavorites(ctx context.Context, owner string) (model.FavoritesList, error)
	SaveFavorites(ctx context.Context, owner string, favorites model.FavoritesList) error
	LoadOneClick(ctx context.Context, owner string) (*model.OneClickRecord, error)
	SaveOneClick(ctx context.Context, owner string, record *model.OneClickRecord) error
}

type redisStateRepository struct {
	client *redis.Client
}

func NewStateRepository(client *redis.Client) StateRepository {
	return &redisStateRepository{client: client}
}

func cartKey(owner string) string      { return "state:cart:" + owner }
func favoritesKey(owner string) string { return "state:favorites:" + owner }
func oneClickKey(owner string) string  { return "state:oneclick:" + owner }

// loadRaw fetches a snapshot's raw JSON. A missing key yields (nil, nil).
func (r *redisStateRepository) loadRaw(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logger.Error("Failed to load state snapshot", err, map[string]interface{}{
			"key": key,
		})
		return nil, err
	}
	return data, nil
}

func (r *redisStateRepository) saveRaw(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Error("Failed to encode state snapshot", err, map[string]interface{}{
			"key": key,
		})
		return err
	}

	if err := r.client.Set(ctx, key, data, stateTTL).Err(); err != nil {
		logger.Error("Failed to save state snapshot", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}

func (r *redisStateRepository) LoadCart(ctx context.Context, owner string) (model.CartSnapshot, error) {
	data, err := r.loadRaw(ctx, cartKey(owner))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return model.CartSnapshot{}, nil
	}

	// Quantities decode as floats so legacy fractional or non-finite
	// values survive to the migration step, which drops them.
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("Malformed cart snapshot, treating as empty", map[string]interface{}{
			"owner": owner,
			"error": err.Error(),
		})
		return model.CartSnapshot{}, nil
	}
	return model.MigrateCart(raw), nil
}

func (r *redisStateRepository) SaveCart(ctx context.Context, owner string, cart model.CartSnapshot) error {
	return r.saveRaw(ctx, cartKey(owner), cart)
}

func (r *redisStateRepository) LoadFavorites(ctx context.Context, owner string) (model.FavoritesList, error) {
	data, err := r.loadRaw(ctx, favoritesKey(owner))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return model.FavoritesList{}, nil
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("Malformed favorites snapshot, treating as empty", map[string]interface{}{
			"owner": owner,
			"error": err.Error(),
		})
		return model.FavoritesList{}, nil
	}
	return model.MigrateFavorites(raw), nil
}

func (r *redisStateRepository) SaveFavorites(ctx context.Context, owner string, favorites model.FavoritesList) error {
	return r.saveRaw(ctx, favoritesKey(owner), favorites)
}

func (r *redisStateRepository) LoadOneClick(ctx context.Context, owner string) (*model.OneClickRecord, error) {
	data, err := r.loadRaw(ctx, oneClickKey(owner))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var raw *model.RawOneClick
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("Malformed one-click snapshot, treating as empty", map[string]interface{}{
			"owner": owner,
			"error": err.Error(),
		})
		return nil, nil
	}
	return model.MigrateOneClick(raw), nil
}

func (r *redisStateRepository) SaveOneClick(ctx context.Context, owner string, record *model.OneClickRecord) error {
	if record == nil {
		if err := r.client.Del(ctx, oneClickKey(owner)).Err(); err != nil {
			logger.Error("Failed to clear one-click snapshot", err, map[string]interface{}{
				"owner": owner,
			})
			return err
		}
		return nil
	}
	return r.saveRaw(ctx, oneClickKey(owner), record)
}
