package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"time"
)

// SellerListing is gold a customer offers to sell to the shop.
type SellerListing struct {
	ID          uint                        `gorm:"primarykey" json:"id"`
	Name        string                      `gorm:"not null" json:"name"`
	Category    string                      `json:"category"`
	Weight      string                      `json:"weight"`
	Purity      string                      `json:"purity"`
	Condition   string                      `json:"condition"`
	Price       decimal.Decimal             `gorm:"type:decimal(12,2)" json:"price"`
	Description string                      `json:"description"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	CreatedAt   time.Time                   `json:"createdAt"`
}
