package repository

import (
	"GoldShop/models"
	"context"
	"fmt"
	"gorm.io/gorm"
)

type GoldLoanRepository struct {
	db *gorm.DB
}

func NewGoldLoanRepository(db *gorm.DB) *GoldLoanRepository {
	return &GoldLoanRepository{db: db}
}

func (r *GoldLoanRepository) Create(ctx context.Context, loan *models.GoldLoan) error {
	if err := r.db.WithContext(ctx).Create(loan).Error; err != nil {
		return fmt.Errorf("create gold loan request: %w", err)
	}
	return nil
}

func (r *GoldLoanRepository) List(ctx context.Context) ([]models.GoldLoan, error) {
	loans := []models.GoldLoan{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list gold loan requests: %w", err)
	}
	return loans, nil
}

// Delete removes the request and returns it so its images can be cleaned up.
func (r *GoldLoanRepository) Delete(ctx context.Context, id uint) (*models.GoldLoan, error) {
	var loan models.GoldLoan
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&loan, id).Error; err != nil {
			return translate(err)
		}
		return tx.Delete(&loan).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}
