package repository

import (
	"GoldShop/models"
	"context"
	"fmt"
	"gorm.io/gorm"
)

type SellerRepository struct {
	db *gorm.DB
}

func NewSellerRepository(db *gorm.DB) *SellerRepository {
	return &SellerRepository{db: db}
}

func (r *SellerRepository) Create(ctx context.Context, listing *models.SellerListing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("create seller listing: %w", err)
	}
	return nil
}

func (r *SellerRepository) List(ctx context.Context) ([]models.SellerListing, error) {
	listings := []models.SellerListing{}
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("list seller listings: %w", err)
	}
	return listings, nil
}

func (r *SellerRepository) Delete(ctx context.Context, id uint) (*models.SellerListing, error) {
	var listing models.SellerListing
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&listing, id).Error; err != nil {
			return translate(err)
		}
		return tx.Delete(&listing).Error
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}
