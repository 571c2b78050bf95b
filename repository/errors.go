package repository

import (
	"errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrCartChanged means the cart lines a checkout tried to claim were no
	// longer all unclaimed.
	ErrCartChanged = errors.New("cart lines changed during checkout")
	// ErrStaleWrite means a conditional update matched no row.
	ErrStaleWrite = errors.New("record changed concurrently")

	errStaleSnapshot = errors.New("cache snapshot is stale")
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
