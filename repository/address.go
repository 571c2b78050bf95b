package repository

import (
	"GoldShop/models"
	"context"
	"fmt"
	"gorm.io/gorm"
)

type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return fmt.Errorf("create address: %w", err)
	}
	return nil
}

// GetForUser resolves an address only if it belongs to userID.
func (r *AddressRepository) GetForUser(ctx context.Context, userID, addressID uint) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&address).Error
	if err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID uint) ([]models.Address, error) {
	addresses := []models.Address{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}
