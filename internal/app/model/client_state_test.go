package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateCart_LegacyKeys(t *testing.T) {
	cart := MigrateCart(map[string]float64{
		"sofa-1":                2, // legacy flat id
		"komod-amber::base":     1,
		"shkaf-1::color:white":  3,
	})

	assert.Equal(t, CartSnapshot{
		"sofa-1::base":         2,
		"komod-amber::base":    1,
		"shkaf-1::color:white": 3,
	}, cart)
}

func TestMigrateCart_DropsInvalidQuantities(t *testing.T) {
	cart := MigrateCart(map[string]float64{
		"a": 0,
		"b": -3,
		"c": math.NaN(),
		"d": math.Inf(1),
		"e": 2,
	})

	assert.Equal(t, CartSnapshot{"e::base": 2}, cart)
}

func TestMigrateCart_SumsCollidingKeys(t *testing.T) {
	// A legacy flat id and its canonical form merge into one entry.
	cart := MigrateCart(map[string]float64{
		"sofa-1":       1,
		"sofa-1::base": 2,
	})

	assert.Equal(t, CartSnapshot{"sofa-1::base": 3}, cart)
}

func TestMigrateCart_Idempotent(t *testing.T) {
	once := MigrateCart(map[string]float64{"sofa-1": 2, "b::v": 1})

	raw := make(map[string]float64, len(once))
	for k, v := range once {
		raw[k] = float64(v)
	}
	assert.Equal(t, once, MigrateCart(raw))
}

func TestMigrateFavorites(t *testing.T) {
	favorites := MigrateFavorites([]string{"sofa-1", "sofa-1::base", "komod::color:oak", "", "komod::color:oak"})

	assert.Equal(t, FavoritesList{"sofa-1::base", "komod::color:oak"}, favorites)
	assert.True(t, favorites.Contains("sofa-1::base"))
	assert.False(t, favorites.Contains("sofa-1"))

	assert.Equal(t, favorites, MigrateFavorites(favorites))
}

func TestMigrateOneClick(t *testing.T) {
	assert.Nil(t, MigrateOneClick(nil))
	assert.Nil(t, MigrateOneClick(&RawOneClick{ID: "", Qty: 1}))
	assert.Nil(t, MigrateOneClick(&RawOneClick{ID: "sofa-1", Qty: 0}))
	assert.Nil(t, MigrateOneClick(&RawOneClick{ID: "sofa-1", Qty: math.NaN()}))

	record := MigrateOneClick(&RawOneClick{ID: "sofa-1", Qty: 2})
	assert.Equal(t, &OneClickRecord{ID: "sofa-1::base", Qty: 2}, record)

	again := MigrateOneClick(&RawOneClick{ID: record.ID, Qty: float64(record.Qty)})
	assert.Equal(t, record, again)
}

func TestCartSnapshot_TotalQuantity(t *testing.T) {
	cart := CartSnapshot{"a::base": 2, "b::base": 3}
	assert.Equal(t, 5, cart.TotalQuantity())
	assert.Equal(t, 0, CartSnapshot{}.TotalQuantity())
}
