package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeModule_Aliases(t *testing.T) {
	// All known spellings of the bedside-table module collapse to one token.
	for _, raw := range []string{"tumbi", "tumby", "тумба", "тумбы", " Tumby ", "ТУМБЫ"} {
		assert.Equal(t, ModuleTumbi, NormalizeModule(raw), "raw=%q", raw)
	}
}

func TestNormalizeCollection_Aliases(t *testing.T) {
	for _, raw := range []string{"scandi", "scandy", "skandy", "scand", "Scandy"} {
		assert.Equal(t, "scandi", NormalizeCollection(raw), "raw=%q", raw)
	}
	// Unknown tokens pass through lowercased, not rejected.
	assert.Equal(t, "amber", NormalizeCollection("Amber"))
}

func TestNormalizeRoom(t *testing.T) {
	assert.Equal(t, RoomBedrooms, NormalizeRoom("Спальни"))
	assert.Equal(t, RoomLiving, NormalizeRoom("гостиная"))
	assert.Equal(t, RoomBedrooms, NormalizeRoom("bedrooms"))
	assert.Equal(t, "garage", NormalizeRoom("Garage"))
}

func TestIsRoomToken(t *testing.T) {
	assert.True(t, IsRoomToken(RoomBedrooms))
	assert.True(t, IsRoomToken(RoomLiving))
	assert.False(t, IsRoomToken(ModuleKomody))
	assert.False(t, IsRoomToken(""))
}

func TestIsWardrobeModule(t *testing.T) {
	assert.True(t, IsWardrobeModule(ModuleShkafy))
	assert.True(t, IsWardrobeModule(ModuleVitrini))
	assert.False(t, IsWardrobeModule(ModuleKomody))
}

func TestProduct_IsScene(t *testing.T) {
	scene := Product{Slug: "bedroom-amber", Room: "Спальни"}
	item := Product{Slug: "komod-amber", Room: RoomBedrooms, Module: ModuleKomody}
	other := Product{Slug: "misc", Room: "bedroom-sets"}

	assert.True(t, scene.IsScene())
	assert.False(t, item.IsScene(), "products with a module are never scenes")
	assert.False(t, other.IsScene())
}

func TestProduct_PriceIn(t *testing.T) {
	p := Product{PriceUZS: 1200000, PriceRUB: 9900, OldPriceRUB: 12900}

	assert.Equal(t, 9900.0, p.PriceIn(RegionRU))
	assert.Equal(t, 1200000.0, p.PriceIn(RegionUZ))
	assert.Equal(t, 12900.0, p.OldPriceIn(RegionRU))
	assert.Equal(t, 0.0, p.OldPriceIn(RegionUZ))
}

func TestVariant_DeltaIn(t *testing.T) {
	v := Variant{DeltaUZS: 50000, DeltaRUB: 400}
	assert.Equal(t, 400.0, v.DeltaIn(RegionRU))
	assert.Equal(t, 50000.0, v.DeltaIn(RegionUZ))
}

func TestParseRegion(t *testing.T) {
	assert.Equal(t, RegionRU, ParseRegion("ru"))
	assert.Equal(t, RegionUZ, ParseRegion("uz"))
	assert.Equal(t, RegionUZ, ParseRegion(""))
	assert.Equal(t, RegionUZ, ParseRegion("fr"))
}
