package services

import (
	"GoldShop/models"
	"GoldShop/repository"
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
)

type OrderStore interface {
	Get(ctx context.Context, orderID uint) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, from, to models.OrderStatus) error
	ListUncleared(ctx context.Context) ([]models.Order, error)
	FinishCheckout(ctx context.Context, orderID uint) error
}

type OrderService struct {
	orders OrderStore
	logger *zap.Logger
}

func NewOrderService(orders OrderStore, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, logger: logger}
}

func (s *OrderService) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundError(ErrOrderNotFound, "Order not found")
	}
	if err != nil {
		return nil, StoreError("load order", err)
	}
	return order, nil
}

// ListByUser returns the user's orders oldest first.
func (s *OrderService) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	if userID == 0 {
		return nil, ValidationError("userId is required")
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, StoreError("list orders", err)
	}
	return orders, nil
}

// ListAll returns every order newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, StoreError("list orders", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to status along the allowed transitions.
// Setting the current status again changes nothing.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if orderID == 0 {
		return nil, ValidationError("orderId is required")
	}
	next, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, ValidationError("unknown status %q", status)
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == next {
		return order, nil
	}
	if !order.Status.CanTransition(next) {
		return nil, ConflictError(ErrInvalidTransition,
			fmt.Sprintf("cannot change order status from %s to %s", order.Status, next))
	}

	err = s.orders.UpdateStatus(ctx, orderID, order.Status, next)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NotFoundError(ErrOrderNotFound, "Order not found")
	case errors.Is(err, repository.ErrStaleWrite):
		return nil, ConflictError(ErrInvalidTransition, "order status was changed concurrently, please retry")
	case err != nil:
		return nil, StoreError("update order status", err)
	}

	s.logger.Info("order status updated",
		zap.Uint("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next)))

	order.Status = next
	return order, nil
}

// Reconcile finishes checkouts whose cart clearing step never completed and
// returns how many were finished. It keeps going past individual failures.
func (s *OrderService) Reconcile(ctx context.Context) (int, error) {
	pending, err := s.orders.ListUncleared(ctx)
	if err != nil {
		return 0, StoreError("list uncleared orders", err)
	}

	reconciled := 0
	var errs []error
	for _, order := range pending {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.orders.FinishCheckout(ctx, order.ID); err != nil {
			s.logger.Error("reconcile failed", zap.Uint("order_id", order.ID), zap.Error(err))
			errs = append(errs, fmt.Errorf("order %d: %w", order.ID, err))
			continue
		}
		s.logger.Info("reconciled order cart", zap.Uint("order_id", order.ID), zap.Uint("user_id", order.UserID))
		reconciled++
	}

	if len(errs) > 0 {
		return reconciled, StoreError("reconcile", errors.Join(errs...))
	}
	return reconciled, nil
}
