// Package itemkey implements the composite key that joins cart, favorites
// and one-click state to a catalog entry. A key addresses a (product,
// variant) pair; products without a selected variant use the reserved
// variant id "base".
package itemkey

import "strings"

// Separator joins the product slug and the variant id inside an encoded key.
// Product slugs must never contain it; CMS ingestion enforces that.
const Separator = "::"

// BaseVariant is the variant id used when no variant is selected.
const BaseVariant = "base"

// Key identifies a single purchasable item: a product plus an optional
// variant selection.
type Key struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
}

// New builds a Key, normalizing an empty variant id to BaseVariant.
func New(productID, variantID string) Key {
	if variantID == "" {
		variantID = BaseVariant
	}
	return Key{ProductID: productID, VariantID: variantID}
}

// Encode returns the string form of a (product, variant) pair.
func Encode(productID, variantID string) string {
	return New(productID, variantID).String()
}

// String returns the encoded form "productID::variantID".
func (k Key) String() string {
	variantID := k.VariantID
	if variantID == "" {
		variantID = BaseVariant
	}
	return k.ProductID + Separator + variantID
}

// IsBase reports whether the key carries no variant selection.
func (k Key) IsBase() bool {
	return k.VariantID == "" || k.VariantID == BaseVariant
}

// Parse decodes an encoded key. It is total: a raw value without the
// separator is treated as a legacy product-only key and the variant
// defaults to BaseVariant. Splitting happens at the first separator
// occurrence only.
func Parse(raw string) Key {
	idx := strings.Index(raw, Separator)
	if idx < 0 {
		return Key{ProductID: raw, VariantID: BaseVariant}
	}
	variantID := raw[idx+len(Separator):]
	if variantID == "" {
		variantID = BaseVariant
	}
	return Key{ProductID: raw[:idx], VariantID: variantID}
}

// Canonical rewrites a raw persisted key into its canonical encoded form.
// Legacy product-only keys become "<id>::base"; already-canonical keys are
// returned unchanged, so the rewrite is idempotent.
func Canonical(raw string) string {
	return Parse(raw).String()
}

// ValidProductID reports whether a product slug is safe to use inside a
// key, i.e. it is non-empty and does not contain the separator.
func ValidProductID(productID string) bool {
	return productID != "" && !strings.Contains(productID, Separator)
}
