package repository

import (
	"GoldShop/models"
	"context"
	"fmt"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

// PlaceOrder inserts order with its items and claims exactly lineIDs for it
// in one transaction. If any of the lines is gone or already claimed the
// transaction rolls back with ErrCartChanged.
func (r *OrderRepository) PlaceOrder(ctx context.Context, order *models.Order, lineIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		result := tx.Model(&models.CartLine{}).
			Where("id IN ? AND user_id = ? AND order_id IS NULL", lineIDs, order.UserID).
			Update("order_id", order.ID)
		if result.Error != nil {
			return fmt.Errorf("claim cart lines: %w", result.Error)
		}
		if result.RowsAffected != int64(len(lineIDs)) {
			return ErrCartChanged
		}
		return nil
	})
	if err != nil {
		order.ID = 0
		return err
	}
	return nil
}

// FinishCheckout deletes the lines claimed by orderID and marks the order's
// cart as cleared. Running it twice is harmless.
func (r *OrderRepository) FinishCheckout(ctx context.Context, orderID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("order_id = ?", orderID).Delete(&models.CartLine{}).Error
		if err != nil {
			return fmt.Errorf("delete claimed lines: %w", err)
		}

		err = tx.Model(&models.Order{}).
			Where("id = ?", orderID).
			Update("cart_cleared", true).Error
		if err != nil {
			return fmt.Errorf("mark cart cleared: %w", err)
		}
		return nil
	})
}

// ListUncleared returns orders whose claimed cart lines were never deleted.
func (r *OrderRepository) ListUncleared(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Where("cart_cleared = ?", false).
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list uncleared orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Scopes(withItems).
		First(&order, orderID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Scopes(withItems).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Scopes(withItems).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus writes only the status column, and only if the order is still
// in status from.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uint, from, to models.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		UpdateColumn("status", to)
	if result.Error != nil {
		return fmt.Errorf("update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Count(&n).Error; err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrStaleWrite
	}
	return nil
}
