package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Number          string         `gorm:"uniqueIndex;not null" json:"number"`
	UserID          *uint          `gorm:"index" json:"user_id,omitempty"` // nil for guest orders
	SessionID       string         `gorm:"index" json:"session_id,omitempty"`
	Region          Region         `gorm:"type:varchar(5);not null" json:"region"`
	Status          OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	OneClick        bool           `gorm:"default:false" json:"one_click"` // placed via express checkout
	CustomerName    string         `gorm:"not null" json:"customer_name"`
	CustomerPhone   string         `gorm:"not null" json:"customer_phone"`
	ShippingAddress string         `gorm:"type:text" json:"shipping_address"`
	Comment         string         `gorm:"type:text" json:"comment,omitempty"`
	TotalAmount     float64        `gorm:"not null" json:"total_amount"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem captures the item-key resolution at checkout time: the product
// slug, the selected variant and the unit price are snapshots, immune to
// later catalog changes.
type OrderItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	OrderID      uint           `gorm:"not null;index" json:"order_id"`
	ProductID    uint           `gorm:"not null;index" json:"product_id"`
	ProductSlug  string         `gorm:"not null" json:"product_slug"`
	VariantID    string         `gorm:"not null;default:'base'" json:"variant_id"`
	Title        string         `gorm:"not null" json:"title"`
	VariantTitle string         `json:"variant_title,omitempty"`
	Quantity     int            `gorm:"not null" json:"quantity"`
	UnitPrice    float64        `gorm:"not null" json:"unit_price"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
