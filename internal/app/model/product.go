package model

import (
	"time"

	"gorm.io/gorm"
)

// Region selects which currency fields of a product/variant are read.
type Region string

const (
	RegionUZ Region = "uz" // prices in UZS
	RegionRU Region = "ru" // prices in RUB
)

// ParseRegion maps a raw region value to a known region, defaulting to UZ.
func ParseRegion(raw string) Region {
	if Region(raw) == RegionRU {
		return RegionRU
	}
	return RegionUZ
}

type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"` // CMS slug, the item-key product id
	Title       string         `gorm:"not null" json:"title"`
	Badge       string         `json:"badge"`
	Description string         `gorm:"type:text" json:"description"`
	Room        string         `gorm:"type:varchar(50);index" json:"room"`       // canonical token
	Collection  string         `gorm:"type:varchar(50);index" json:"collection"` // canonical token
	Module      string         `gorm:"type:varchar(50);index" json:"module"`     // canonical token, empty for scenes
	PriceUZS    float64        `json:"price_uzs"`
	PriceRUB    float64        `json:"price_rub"`
	OldPriceUZS float64        `json:"old_price_uzs,omitempty"`
	OldPriceRUB float64        `json:"old_price_rub,omitempty"`
	DoorCount   string         `gorm:"type:varchar(20)" json:"door_count,omitempty"` // wardrobe-like modules only
	Facade      string         `gorm:"type:varchar(50)" json:"facade,omitempty"`
	ImageURL    string         `json:"image_url"`
	Gallery     []string       `gorm:"serializer:json" json:"gallery,omitempty"`
	Position    int            `gorm:"index" json:"position"` // CMS (insertion) order
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Variants []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// PriceIn returns the product's base price in the region currency.
func (p *Product) PriceIn(region Region) float64 {
	if region == RegionRU {
		return p.PriceRUB
	}
	return p.PriceUZS
}

// OldPriceIn returns the pre-discount price in the region currency,
// 0 when the product is not discounted.
func (p *Product) OldPriceIn(region Region) float64 {
	if region == RegionRU {
		return p.OldPriceRUB
	}
	return p.OldPriceUZS
}

// IsScene reports whether the product is a showcase room set. Scenes carry
// a recognized room key as their room token and no module; individual
// furniture items always have a module.
func (p *Product) IsScene() bool {
	return p.Module == "" && IsRoomToken(NormalizeRoom(p.Room))
}

// VariantBySlug finds one of the product's variants by its slug, nil when
// absent.
func (p *Product) VariantBySlug(slug string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Slug == slug {
			return &p.Variants[i]
		}
	}
	return nil
}

// Variant is a selectable product option (color, mechanism, size). Its
// price is a per-currency delta applied on top of the product's base price.
type Variant struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Slug      string         `gorm:"not null;index" json:"slug"` // the item-key variant id
	GroupName string         `gorm:"type:varchar(50)" json:"group"` // e.g. "color", "mechanism", "size"
	Title     string         `json:"title"`
	DeltaUZS  float64        `gorm:"default:0" json:"delta_uzs"`
	DeltaRUB  float64        `gorm:"default:0" json:"delta_rub"`
	ImageURL  string         `json:"image_url,omitempty"` // overrides product image when set
	Gallery   []string       `gorm:"serializer:json" json:"gallery,omitempty"`
	IsDefault bool           `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (Variant) TableName() string {
	return "product_variants"
}

// DeltaIn returns the variant's price delta in the region currency.
func (v *Variant) DeltaIn(region Region) float64 {
	if region == RegionRU {
		return v.DeltaRUB
	}
	return v.DeltaUZS
}
