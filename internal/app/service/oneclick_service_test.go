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

func setupOneClickServiceTest(t *testing.T) (OneClickService, repository.StateRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	product := &model.Product{
		Slug:     "krovat-luna",
		Title:    "Кровать Луна",
		Room:     "bedrooms",
		Module:   "krovati",
		PriceUZS: 6000000,
		Variants: []model.Variant{
			{Slug: "160", GroupName: "size", Title: "160 см", DeltaUZS: 500000},
		},
	}
	require.NoError(t, productRepo.Create(product))

	stateRepo := repository.NewMemoryStateRepository()
	return NewOneClickService(stateRepo, productRepo), stateRepo
}

func TestOneClickService_SetAndGet(t *testing.T) {
	oneClickService, _ := setupOneClickServiceTest(t)
	owner := "guest:abc"

	record, err := oneClickService.Set(context.Background(), owner, "krovat-luna", 1, "160")
	require.NoError(t, err)
	assert.Equal(t, "krovat-luna::160", record.ID)
	assert.Equal(t, 1, record.Qty)

	// Setting again replaces the record, it never accumulates.
	record, err = oneClickService.Set(context.Background(), owner, "krovat-luna", 2, "")
	require.NoError(t, err)
	assert.Equal(t, "krovat-luna::base", record.ID)
	assert.Equal(t, 2, record.Qty)

	got, err := oneClickService.Get(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record.ID, got.ID)
}

func TestOneClickService_Validation(t *testing.T) {
	oneClickService, _ := setupOneClickServiceTest(t)
	owner := "guest:abc"

	_, err := oneClickService.Set(context.Background(), owner, "krovat-luna", 0, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = oneClickService.Set(context.Background(), owner, "no-such-product", 1, "")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = oneClickService.Set(context.Background(), owner, "krovat-luna", 1, "200")
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestOneClickService_Clear(t *testing.T) {
	oneClickService, _ := setupOneClickServiceTest(t)
	owner := "guest:abc"

	_, err := oneClickService.Set(context.Background(), owner, "krovat-luna", 1, "")
	require.NoError(t, err)

	require.NoError(t, oneClickService.Clear(context.Background(), owner))

	record, err := oneClickService.Get(context.Background(), owner)
	require.NoError(t, err)
	assert.Nil(t, record)

	// Clearing an already empty owner is a no-op.
	require.NoError(t, oneClickService.Clear(context.Background(), owner))
}

func TestOneClickService_MigratesLegacyRecord(t *testing.T) {
	oneClickService, stateRepo := setupOneClickServiceTest(t)
	owner := "guest:abc"

	repository.SeedOneClickJSON(stateRepo, owner, []byte(`{"id": "krovat-luna", "qty": 1.0}`))

	record, err := oneClickService.Get(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "krovat-luna::base", record.ID)
	assert.Equal(t, 1, record.Qty)
}

func TestOneClickService_DropsInvalidLegacyRecord(t *testing.T) {
	oneClickService, stateRepo := setupOneClickServiceTest(t)
	owner := "guest:abc"

	repository.SeedOneClickJSON(stateRepo, owner, []byte(`{"id": "krovat-luna", "qty": 0}`))

	record, err := oneClickService.Get(context.Background(), owner)
	require.NoError(t, err)
	assert.Nil(t, record)
}
