package models

import "github.com/shopspring/decimal"

// OrderItem is a frozen copy of a cart line taken at checkout.
type OrderItem struct {
	ID         uint            `gorm:"primarykey" json:"-"`
	OrderID    uint            `gorm:"index;not null" json:"-"`
	Position   int             `gorm:"not null" json:"-"`
	CartLineID uint            `json:"-"`
	ProductID  *uint           `json:"productId,omitempty"`
	Name       string          `gorm:"not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Purity     string          `json:"purity,omitempty"`
	Weight     string          `json:"weight,omitempty"`
	Image      string          `json:"image,omitempty"`
}
