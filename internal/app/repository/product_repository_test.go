package repository

import (
	"testing"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) ProductRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewProductRepository(testDB)
}

func TestProductRepository_FindAll_InsertionOrder(t *testing.T) {
	repo := setupProductRepositoryTest(t)

	// Position drives the CMS order, not the creation order.
	require.NoError(t, repo.Create(&model.Product{Slug: "second", Title: "Второй", Position: 2}))
	require.NoError(t, repo.Create(&model.Product{Slug: "first", Title: "Первый", Position: 1}))

	products, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "first", products[0].Slug)
	assert.Equal(t, "second", products[1].Slug)
}

func TestProductRepository_FindBySlug_PreloadsVariants(t *testing.T) {
	repo := setupProductRepositoryTest(t)

	require.NoError(t, repo.Create(&model.Product{
		Slug:  "divan-verona",
		Title: "Диван Верона",
		Variants: []model.Variant{
			{Slug: "green", GroupName: "color", Title: "Зелёный"},
			{Slug: "grey", GroupName: "color", Title: "Серый"},
		},
	}))

	product, err := repo.FindBySlug("divan-verona")
	require.NoError(t, err)
	assert.Len(t, product.Variants, 2)

	_, err = repo.FindBySlug("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_UpsertBySlug(t *testing.T) {
	repo := setupProductRepositoryTest(t)

	require.NoError(t, repo.UpsertBySlug(&model.Product{
		Slug:     "tumba-amber",
		Title:    "Тумба Амбер",
		PriceUZS: 900000,
		Variants: []model.Variant{
			{Slug: "oak", Title: "Дуб"},
		},
	}))

	// A second upsert with the same slug replaces the row and its variants.
	require.NoError(t, repo.UpsertBySlug(&model.Product{
		Slug:     "tumba-amber",
		Title:    "Тумба Амбер v2",
		PriceUZS: 950000,
		Variants: []model.Variant{
			{Slug: "walnut", Title: "Орех"},
		},
	}))

	product, err := repo.FindBySlug("tumba-amber")
	require.NoError(t, err)
	assert.Equal(t, "Тумба Амбер v2", product.Title)
	assert.Equal(t, 950000.0, product.PriceUZS)
	require.Len(t, product.Variants, 1)
	assert.Equal(t, "walnut", product.Variants[0].Slug)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProductRepository_DeleteMissingSlugs(t *testing.T) {
	repo := setupProductRepositoryTest(t)

	require.NoError(t, repo.Create(&model.Product{Slug: "keep-me", Title: "Остаётся"}))
	require.NoError(t, repo.Create(&model.Product{Slug: "drop-me", Title: "Уходит"}))

	removed, err := repo.DeleteMissingSlugs([]string{"keep-me"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.FindBySlug("keep-me")
	assert.NoError(t, err)
	_, err = repo.FindBySlug("drop-me")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_UpsertBySlug_RestoresRemovedProduct(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	repo := NewProductRepository(testDB)

	require.NoError(t, repo.UpsertBySlug(&model.Product{
		Slug:     "komod-amber",
		Title:    "Комод Амбер",
		PriceUZS: 2500000,
	}))

	// The product drops out of one feed and the cleanup removes it.
	removed, err := repo.DeleteMissingSlugs([]string{"something-else"})
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)
	_, err = repo.FindBySlug("komod-amber")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// A later feed lists it again: the slug must be reclaimed, not collide
	// with the removed row's unique index entry.
	require.NoError(t, repo.UpsertBySlug(&model.Product{
		Slug:     "komod-amber",
		Title:    "Комод Амбер v2",
		PriceUZS: 2600000,
		Variants: []model.Variant{
			{Slug: "oak", Title: "Дуб"},
		},
	}))

	product, err := repo.FindBySlug("komod-amber")
	require.NoError(t, err)
	assert.Equal(t, "Комод Амбер v2", product.Title)
	require.Len(t, product.Variants, 1)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProductRepository_UpsertBySlug_VariantRowsDoNotAccumulate(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	repo := NewProductRepository(testDB)

	product := model.Product{
		Slug:  "divan-verona",
		Title: "Диван Верона",
		Variants: []model.Variant{
			{Slug: "green", Title: "Зелёный"},
			{Slug: "grey", Title: "Серый"},
		},
	}
	for i := 0; i < 3; i++ {
		fresh := product
		fresh.ID = 0
		fresh.Variants = []model.Variant{
			{Slug: "green", Title: "Зелёный"},
			{Slug: "grey", Title: "Серый"},
		}
		require.NoError(t, repo.UpsertBySlug(&fresh))
	}

	// Replaced variant rows are dropped for good, not left soft-deleted.
	var total int64
	require.NoError(t, testDB.Unscoped().Model(&model.Variant{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)
}
