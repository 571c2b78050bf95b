package repository

import (
	"GoldShop/models"
	"context"
	"errors"
	"fmt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func unclaimed(db *gorm.DB) *gorm.DB {
	return db.Where("order_id IS NULL")
}

// ListLines returns the user's unclaimed lines in the order they were added.
func (r *CartRepository) ListLines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := r.db.WithContext(ctx).
		Scopes(unclaimed).
		Where("user_id = ?", userID).
		Order("added_at, id").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	return lines, nil
}

func (r *CartRepository) Add(ctx context.Context, line *models.CartLine) error {
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		return fmt.Errorf("add cart line: %w", err)
	}
	return nil
}

// AddOrMerge increments the quantity of the user's unclaimed line for the same
// product if there is one, otherwise inserts line. Lines without a product
// reference are always inserted. It reports whether a merge happened.
func (r *CartRepository) AddOrMerge(ctx context.Context, line *models.CartLine) (bool, error) {
	if line.ProductID == nil {
		return false, r.Add(ctx, line)
	}

	merged := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CartLine
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(unclaimed).
			Where("user_id = ? AND product_id = ?", line.UserID, *line.ProductID).
			Order("id").
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(line).Error
			}
			return err
		}

		err = tx.Model(&models.CartLine{}).
			Where("id = ?", existing.ID).
			Update("quantity", gorm.Expr("quantity + ?", line.Quantity)).Error
		if err != nil {
			return err
		}
		merged = true
		return tx.First(line, existing.ID).Error
	})
	if err != nil {
		return false, fmt.Errorf("add cart line: %w", err)
	}
	return merged, nil
}

// Remove deletes one unclaimed line owned by userID.
func (r *CartRepository) Remove(ctx context.Context, userID, lineID uint) error {
	result := r.db.WithContext(ctx).
		Scopes(unclaimed).
		Where("id = ? AND user_id = ?", lineID, userID).
		Delete(&models.CartLine{})
	if result.Error != nil {
		return fmt.Errorf("remove cart line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear deletes every unclaimed line of the user and returns how many went.
func (r *CartRepository) Clear(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Scopes(unclaimed).
		Where("user_id = ?", userID).
		Delete(&models.CartLine{})
	if result.Error != nil {
		return 0, fmt.Errorf("clear cart: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CountClaimed returns how many lines are still held by orderID.
func (r *CartRepository) CountClaimed(ctx context.Context, orderID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("order_id = ?", orderID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count claimed lines: %w", err)
	}
	return n, nil
}
