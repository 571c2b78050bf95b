package models

import (
	"github.com/shopspring/decimal"
	"time"
)

type Order struct {
	ID               uint            `gorm:"primarykey" json:"orderId"`
	Reference        string          `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	UserID           uint            `gorm:"index;not null" json:"userId"`
	AddressID        uint            `gorm:"not null" json:"addressId"`
	Address          AddressDetails  `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID" json:"orderSummary"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Shipping         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	PaymentMethod    PaymentMethod   `gorm:"size:16;not null" json:"paymentMethod"`
	ExpectedDelivery string          `json:"expectedDelivery"`
	Status           OrderStatus     `gorm:"size:16;index;not null" json:"status"`
	CartCleared      bool            `gorm:"index;not null" json:"-"`
	CreatedAt        time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}
