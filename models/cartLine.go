package models

import (
	"github.com/shopspring/decimal"
	"time"
)

// CartLine is one add-to-cart action with the price captured at that moment.
// OrderID is set once a checkout claims the line; claimed lines are no longer
// part of the user's cart.
type CartLine struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"index;not null" json:"userId"`
	ProductID *uint           `gorm:"index" json:"productId,omitempty"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Purity    string          `json:"purity,omitempty"`
	Weight    string          `json:"weight,omitempty"`
	Image     string          `json:"image,omitempty"`
	AddedAt   time.Time       `gorm:"autoCreateTime" json:"addedAt"`
	OrderID   *uint           `gorm:"index" json:"-"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
