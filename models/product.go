package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"time"
)

type Product struct {
	ID        uint                        `gorm:"primarykey" json:"id"`
	SKU       string                      `gorm:"size:64;index" json:"productId"`
	Title     string                      `gorm:"not null" json:"title"`
	Purity    string                      `json:"purity"`
	Weight    string                      `json:"weight"`
	Price     decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock     int                         `gorm:"not null" json:"stock"`
	Featured  bool                        `json:"featured"`
	ImageURLs datatypes.JSONSlice[string] `json:"image_urls"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

// FirstImage returns the primary image URL or "".
func (p Product) FirstImage() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}
