package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/repository"
	"github.com/dsaidov/mebelplaza-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCMSClient struct {
	products []model.Product
	err      error
}

func (f *fakeCMSClient) FetchProducts(_ context.Context) ([]model.Product, error) {
	return f.products, f.err
}

func setupSyncServiceTest(t *testing.T) repository.ProductRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return repository.NewProductRepository(testDB)
}

func TestCatalogSyncService_SyncCatalog(t *testing.T) {
	productRepo := setupSyncServiceTest(t)

	stale := &model.Product{Slug: "stale-product", Title: "Старый", PriceUZS: 100}
	require.NoError(t, productRepo.Create(stale))

	client := &fakeCMSClient{products: []model.Product{
		{Slug: "divan-verona", Title: "Диван Верона", PriceUZS: 4500000},
		{Slug: "tumba-amber", Title: "Тумба Амбер", PriceUZS: 900000},
	}}
	syncService := NewCatalogSyncService(client, productRepo)

	result, err := syncService.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Upserted)
	assert.Equal(t, int64(1), result.Removed)

	_, err = productRepo.FindBySlug("stale-product")
	assert.Error(t, err)

	found, err := productRepo.FindBySlug("divan-verona")
	require.NoError(t, err)
	assert.Equal(t, "Диван Верона", found.Title)
}

func TestCatalogSyncService_UpdatesExisting(t *testing.T) {
	productRepo := setupSyncServiceTest(t)

	require.NoError(t, productRepo.Create(&model.Product{Slug: "divan-verona", Title: "Диван Верона", PriceUZS: 4000000}))

	client := &fakeCMSClient{products: []model.Product{
		{Slug: "divan-verona", Title: "Диван Верона 2", PriceUZS: 4500000},
	}}
	syncService := NewCatalogSyncService(client, productRepo)

	result, err := syncService.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Upserted)
	assert.Equal(t, int64(0), result.Removed)

	found, err := productRepo.FindBySlug("divan-verona")
	require.NoError(t, err)
	assert.Equal(t, "Диван Верона 2", found.Title)
	assert.Equal(t, 4500000.0, found.PriceUZS)
}

func TestCatalogSyncService_EmptyFeedKeepsCatalog(t *testing.T) {
	productRepo := setupSyncServiceTest(t)

	require.NoError(t, productRepo.Create(&model.Product{Slug: "divan-verona", Title: "Диван Верона"}))

	syncService := NewCatalogSyncService(&fakeCMSClient{}, productRepo)

	result, err := syncService.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Upserted)
	assert.Equal(t, int64(0), result.Removed)

	_, err = productRepo.FindBySlug("divan-verona")
	assert.NoError(t, err)
}

func TestCatalogSyncService_FetchError(t *testing.T) {
	productRepo := setupSyncServiceTest(t)

	fetchErr := errors.New("cms unreachable")
	syncService := NewCatalogSyncService(&fakeCMSClient{err: fetchErr}, productRepo)

	_, err := syncService.SyncCatalog(context.Background())
	assert.ErrorIs(t, err, fetchErr)
}

func TestCatalogSyncService_NotConfigured(t *testing.T) {
	productRepo := setupSyncServiceTest(t)

	syncService := NewCatalogSyncService(nil, productRepo)

	_, err := syncService.SyncCatalog(context.Background())
	assert.ErrorIs(t, err, ErrCMSNotConfigured)
}
