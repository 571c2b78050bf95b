package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"time"
)

// GoldLoan is a customer's request for a loan against pledged gold.
type GoldLoan struct {
	ID         uint                        `gorm:"primarykey" json:"id"`
	Bank       string                      `json:"bank"`
	FullName   string                      `gorm:"not null" json:"fullname"`
	Mobile     string                      `gorm:"size:32;not null" json:"mobile"`
	Address    string                      `json:"address"`
	GoldWeight string                      `json:"goldweight"`
	GoldType   string                      `json:"goldtype"`
	IDProof    string                      `json:"idproof"`
	LoanAmount decimal.Decimal             `gorm:"type:decimal(12,2)" json:"loanamount"`
	Remarks    string                      `json:"remarks"`
	Images     datatypes.JSONSlice[string] `json:"image"`
	CreatedAt  time.Time                   `json:"createdAt"`
}
