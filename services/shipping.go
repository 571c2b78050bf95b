package services

import (
	"fmt"
	"github.com/shopspring/decimal"
)

// ShippingPolicy charges a flat amount, waived when FreeOver is positive and
// the subtotal reaches it.
type ShippingPolicy struct {
	Flat     decimal.Decimal
	FreeOver decimal.Decimal
}

func NewShippingPolicy(flat, freeOver string) (ShippingPolicy, error) {
	var policy ShippingPolicy
	var err error
	if policy.Flat, err = decimal.NewFromString(flat); err != nil {
		return policy, fmt.Errorf("flat shipping: %w", err)
	}
	if freeOver != "" {
		if policy.FreeOver, err = decimal.NewFromString(freeOver); err != nil {
			return policy, fmt.Errorf("free shipping threshold: %w", err)
		}
	}
	if policy.Flat.IsNegative() {
		return policy, fmt.Errorf("flat shipping must not be negative")
	}
	return policy, nil
}

func (p ShippingPolicy) Quote(subtotal decimal.Decimal) decimal.Decimal {
	if p.FreeOver.IsPositive() && subtotal.GreaterThanOrEqual(p.FreeOver) {
		return decimal.Zero
	}
	return p.Flat
}
