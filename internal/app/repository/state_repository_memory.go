package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
)

// memoryStateRepository is an in-process StateRepository used by tests and
// local development without Redis. It round-trips snapshots through JSON so
// load behavior (including legacy-shape migration) matches the Redis
// implementation.
type memoryStateRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStateRepository() StateRepository {
	return &memoryStateRepository{data: make(map[string][]byte)}
}

// Seed stores raw JSON under a snapshot key, for exercising migration of
// legacy persisted shapes in tests.
func (r *memoryStateRepository) Seed(key string, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = raw
}

func (r *memoryStateRepository) load(key string) []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data[key]
}

func (r *memoryStateRepository) save(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = data
	return nil
}

func (r *memoryStateRepository) LoadCart(_ context.Context, owner string) (model.CartSnapshot, error) {
	data := r.load(cartKey(owner))
	if data == nil {
		return model.CartSnapshot{}, nil
	}
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.CartSnapshot{}, nil
	}
	return model.MigrateCart(raw), nil
}

func (r *memoryStateRepository) SaveCart(_ context.Context, owner string, cart model.CartSnapshot) error {
	return r.save(cartKey(owner), cart)
}

func (r *memoryStateRepository) LoadFavorites(_ context.Context, owner string) (model.FavoritesList, error) {
	data := r.load(favoritesKey(owner))
	if data == nil {
		return model.FavoritesList{}, nil
	}
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.FavoritesList{}, nil
	}
	return model.MigrateFavorites(raw), nil
}

func (r *memoryStateRepository) SaveFavorites(_ context.Context, owner string, favorites model.FavoritesList) error {
	return r.save(favoritesKey(owner), favorites)
}

func (r *memoryStateRepository) LoadOneClick(_ context.Context, owner string) (*model.OneClickRecord, error) {
	data := r.load(oneClickKey(owner))
	if data == nil {
		return nil, nil
	}
	var raw *model.RawOneClick
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil
	}
	return model.MigrateOneClick(raw), nil
}

func (r *memoryStateRepository) SaveOneClick(_ context.Context, owner string, record *model.OneClickRecord) error {
	if record == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.data, oneClickKey(owner))
		return nil
	}
	return r.save(oneClickKey(owner), record)
}

// SeedCartJSON exposes Seed for cart snapshots keyed by owner.
func SeedCartJSON(repo StateRepository, owner string, raw []byte) {
	if m, ok := repo.(*memoryStateRepository); ok {
		m.Seed(cartKey(owner), raw)
	}
}

// SeedFavoritesJSON exposes Seed for favorites snapshots keyed by owner.
func SeedFavoritesJSON(repo StateRepository, owner string, raw []byte) {
	if m, ok := repo.(*memoryStateRepository); ok {
		m.Seed(favoritesKey(owner), raw)
	}
}

// SeedOneClickJSON exposes Seed for one-click snapshots keyed by owner.
func SeedOneClickJSON(repo StateRepository, owner string, raw []byte) {
	if m, ok := repo.(*memoryStateRepository); ok {
		m.Seed(oneClickKey(owner), raw)
	}
}
