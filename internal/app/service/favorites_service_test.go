package service

import (
	"context"
	"testing"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/repository"
	"github.com/dsaidov/mebelplaza-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFavoritesServiceTest(t *testing.T) (FavoritesService, repository.StateRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	product := &model.Product{
		Slug:     "tumba-amber",
		Title:    "Тумба Амбер",
		Room:     "bedrooms",
		Module:   "tumbi",
		PriceUZS: 900000,
		Variants: []model.Variant{
			{Slug: "oak", GroupName: "color", Title: "Дуб"},
		},
	}
	require.NoError(t, productRepo.Create(product))

	stateRepo := repository.NewMemoryStateRepository()
	return NewFavoritesService(stateRepo, productRepo), stateRepo
}

func TestFavoritesService_Toggle(t *testing.T) {
	favoritesService, _ := setupFavoritesServiceTest(t)
	owner := "guest:abc"

	favorited, favorites, err := favoritesService.Toggle(context.Background(), owner, "tumba-amber", "")
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.Equal(t, model.FavoritesList{"tumba-amber::base"}, favorites)

	// Toggling again removes the entry.
	favorited, favorites, err = favoritesService.Toggle(context.Background(), owner, "tumba-amber", "")
	require.NoError(t, err)
	assert.False(t, favorited)
	assert.Empty(t, favorites)
}

func TestFavoritesService_Toggle_VariantsAreDistinct(t *testing.T) {
	favoritesService, _ := setupFavoritesServiceTest(t)
	owner := "guest:abc"

	_, _, err := favoritesService.Toggle(context.Background(), owner, "tumba-amber", "")
	require.NoError(t, err)
	_, favorites, err := favoritesService.Toggle(context.Background(), owner, "tumba-amber", "oak")
	require.NoError(t, err)

	assert.Equal(t, model.FavoritesList{"tumba-amber::base", "tumba-amber::oak"}, favorites)
}

func TestFavoritesService_Toggle_Validation(t *testing.T) {
	favoritesService, _ := setupFavoritesServiceTest(t)

	_, _, err := favoritesService.Toggle(context.Background(), "guest:abc", "no-such-product", "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFavoritesService_Remove(t *testing.T) {
	favoritesService, _ := setupFavoritesServiceTest(t)
	owner := "guest:abc"

	_, _, err := favoritesService.Toggle(context.Background(), owner, "tumba-amber", "")
	require.NoError(t, err)

	favorites, err := favoritesService.Remove(context.Background(), owner, "tumba-amber", "")
	require.NoError(t, err)
	assert.Empty(t, favorites)

	// Removing an absent favorite is a no-op.
	favorites, err = favoritesService.Remove(context.Background(), owner, "tumba-amber", "")
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestFavoritesService_MigratesLegacyKeys(t *testing.T) {
	favoritesService, stateRepo := setupFavoritesServiceTest(t)
	owner := "guest:abc"

	repository.SeedFavoritesJSON(stateRepo, owner, []byte(`["tumba-amber", "tumba-amber::oak", "tumba-amber"]`))

	favorites, err := favoritesService.GetFavorites(context.Background(), owner)
	require.NoError(t, err)

	// Legacy bare slugs gain the base variant and duplicates collapse.
	assert.Equal(t, model.FavoritesList{"tumba-amber::base", "tumba-amber::oak"}, favorites)
}
