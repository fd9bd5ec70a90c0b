package model

import "strings"

// Canonical room tokens. A product whose room token is one of these is a
// "scene": a showcase room set rather than an individual furniture item.
const (
	RoomBedrooms = "bedrooms"
	RoomLiving   = "living"
	RoomKitchens = "kitchens"
	RoomHallways = "hallways"
	RoomKids     = "kids"
	RoomOffices  = "offices"
)

// Canonical module (furniture type) tokens.
const (
	ModuleTumbi   = "tumbi"
	ModuleShkafy  = "shkafy"
	ModuleVitrini = "vitrini"
	ModuleKomody  = "komody"
	ModuleDivany  = "divany"
	ModuleKrovati = "krovati"
	ModuleStoly   = "stoly"
)

var roomTokens = map[string]bool{
	RoomBedrooms: true,
	RoomLiving:   true,
	RoomKitchens: true,
	RoomHallways: true,
	RoomKids:     true,
	RoomOffices:  true,
}

// Upstream CMS content and historical URLs are inconsistent; without these
// alias maps equality comparisons silently fail and filters appear broken.
var roomAliases = map[string]string{
	"спальни":   RoomBedrooms,
	"спальня":   RoomBedrooms,
	"гостиные":  RoomLiving,
	"гостиная":  RoomLiving,
	"кухни":     RoomKitchens,
	"кухня":     RoomKitchens,
	"прихожие":  RoomHallways,
	"прихожая":  RoomHallways,
	"детские":   RoomKids,
	"детская":   RoomKids,
	"кабинеты":  RoomOffices,
	"кабинет":   RoomOffices,
}

var moduleAliases = map[string]string{
	"tumby":  ModuleTumbi,
	"тумба":  ModuleTumbi,
	"тумбы":  ModuleTumbi,
	"шкафы":  ModuleShkafy,
	"шкаф":   ModuleShkafy,
	"комоды": ModuleKomody,
	"комод":  ModuleKomody,
}

var collectionAliases = map[string]string{
	"scandy": "scandi",
	"skandy": "scandi",
	"scand":  "scandi",
}

// wardrobe-like modules carry door-count and facade sub-filters
var wardrobeModules = map[string]bool{
	ModuleShkafy:  true,
	ModuleVitrini: true,
}

func normalizeToken(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeRoom maps a free-form room token to its canonical form.
// Unknown tokens pass through unchanged rather than being rejected.
func NormalizeRoom(raw string) string {
	token := normalizeToken(raw)
	if canonical, ok := roomAliases[token]; ok {
		return canonical
	}
	return token
}

// NormalizeModule maps a free-form module token to its canonical form.
func NormalizeModule(raw string) string {
	token := normalizeToken(raw)
	if canonical, ok := moduleAliases[token]; ok {
		return canonical
	}
	return token
}

// NormalizeCollection maps a free-form collection token to its canonical form.
func NormalizeCollection(raw string) string {
	token := normalizeToken(raw)
	if canonical, ok := collectionAliases[token]; ok {
		return canonical
	}
	return token
}

// IsRoomToken reports whether a normalized token is a recognized room key.
func IsRoomToken(token string) bool {
	return roomTokens[token]
}

// IsWardrobeModule reports whether a normalized module token takes
// door-count and facade sub-filters.
func IsWardrobeModule(token string) bool {
	return wardrobeModules[token]
}
