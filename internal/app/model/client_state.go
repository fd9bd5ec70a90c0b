package model

import (
	"math"

	"github.com/dsaidov/mebelplaza-backend/pkg/itemkey"
)

// Client-side storefront state, keyed by encoded item keys. Three
// independent structures per state owner: cart (key -> quantity),
// favorites (ordered key set) and one-click (a single express-checkout
// record).

// CartSnapshot maps encoded item keys to positive integer quantities.
type CartSnapshot map[string]int

// FavoritesList is an ordered set of encoded item keys.
type FavoritesList []string

// OneClickRecord holds at most one item for the express checkout flow.
type OneClickRecord struct {
	ID  string `json:"id"` // encoded item key
	Qty int    `json:"qty"`
}

// RawOneClick is the loosely-typed persisted shape of a one-click record.
type RawOneClick struct {
	ID  string  `json:"id"`
	Qty float64 `json:"qty"`
}

// TotalQuantity sums the quantities of all cart entries.
func (c CartSnapshot) TotalQuantity() int {
	total := 0
	for _, qty := range c {
		total += qty
	}
	return total
}

// Contains reports whether a key is favorited.
func (f FavoritesList) Contains(key string) bool {
	for _, k := range f {
		if k == key {
			return true
		}
	}
	return false
}

// MigrateCart upgrades a raw persisted cart into the canonical snapshot.
// Legacy separator-less keys are rewritten to "<id>::base"; quantities that
// are zero, negative or non-finite are dropped; quantities for raw keys
// that canonicalize to the same item key are summed. Idempotent.
func MigrateCart(raw map[string]float64) CartSnapshot {
	cart := make(CartSnapshot, len(raw))
	for key, qty := range raw {
		if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
			continue
		}
		cart[itemkey.Canonical(key)] += int(qty)
	}
	return cart
}

// MigrateFavorites upgrades a raw persisted favorites list, rewriting
// legacy keys and dropping duplicates while preserving order. Idempotent.
func MigrateFavorites(raw []string) FavoritesList {
	favorites := make(FavoritesList, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, key := range raw {
		if key == "" {
			continue
		}
		canonical := itemkey.Canonical(key)
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		favorites = append(favorites, canonical)
	}
	return favorites
}

// MigrateOneClick upgrades a raw persisted one-click record, returning nil
// when the record is absent or its quantity invalid. Idempotent.
func MigrateOneClick(raw *RawOneClick) *OneClickRecord {
	if raw == nil || raw.ID == "" {
		return nil
	}
	if raw.Qty <= 0 || math.IsNaN(raw.Qty) || math.IsInf(raw.Qty, 0) {
		return nil
	}
	return &OneClickRecord{
		ID:  itemkey.Canonical(raw.ID),
		Qty: int(raw.Qty),
	}
}
