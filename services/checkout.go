package services

import (
	"GoldShop/lock"
	"GoldShop/models"
	"GoldShop/repository"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"time"
)

type AddressStore interface {
	GetForUser(ctx context.Context, userID, addressID uint) (*models.Address, error)
}

type CartReader interface {
	ListLines(ctx context.Context, userID uint) ([]models.CartLine, error)
}

type OrderWriter interface {
	PlaceOrder(ctx context.Context, order *models.Order, lineIDs []uint) error
	FinishCheckout(ctx context.Context, orderID uint) error
}

// Catalog supplies canonical product data by id.
type Catalog interface {
	Get(ctx context.Context, id uint) (*models.Product, error)
}

type CheckoutRequest struct {
	UserID           uint
	AddressID        uint
	PaymentMethod    string
	ExpectedDelivery string
}

type CheckoutOptions struct {
	LockTTL           time.Duration
	EnrichConcurrency int
	// FinishTimeout bounds the cart clearing step, which runs even if the
	// caller has gone away.
	FinishTimeout time.Duration
}

type CheckoutService struct {
	addresses AddressStore
	carts     CartReader
	orders    OrderWriter
	catalog   Catalog
	locker    lock.Locker
	shipping  ShippingPolicy
	opts      CheckoutOptions
	logger    *zap.Logger
}

func NewCheckoutService(
	addresses AddressStore,
	carts CartReader,
	orders OrderWriter,
	catalog Catalog,
	locker lock.Locker,
	shipping ShippingPolicy,
	opts CheckoutOptions,
	logger *zap.Logger,
) *CheckoutService {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 15 * time.Second
	}
	if opts.EnrichConcurrency <= 0 {
		opts.EnrichConcurrency = 8
	}
	if opts.FinishTimeout <= 0 {
		opts.FinishTimeout = 10 * time.Second
	}
	return &CheckoutService{
		addresses: addresses,
		carts:     carts,
		orders:    orders,
		catalog:   catalog,
		locker:    locker,
		shipping:  shipping,
		opts:      opts,
		logger:    logger,
	}
}

func checkoutLockKey(userID uint) string {
	return fmt.Sprintf("checkout:%d", userID)
}

// Checkout turns the user's current cart into an order and empties the cart.
//
// The order insert and the claim of the cart lines commit together, so a
// failure up to that point leaves nothing behind. Deleting the claimed lines
// is a second step; if it fails the order stands, the lines stay claimed and
// hidden from the cart, and a PartialCommitError is returned for Reconcile to
// finish later.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	if req.UserID == 0 {
		return nil, ValidationError("userId is required")
	}
	if req.AddressID == 0 {
		return nil, ValidationError("addressId is required")
	}
	method, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, ValidationError("paymentMethod must be one of cod, card, upi, netbanking")
	}

	release, err := s.locker.Acquire(ctx, checkoutLockKey(req.UserID), s.opts.LockTTL)
	if errors.Is(err, lock.ErrHeld) {
		return nil, ConflictError(ErrCheckoutInProgress, "checkout already in progress for this user")
	}
	if err != nil {
		return nil, StoreError("acquire checkout lock", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release checkout lock", zap.Uint("user_id", req.UserID), zap.Error(err))
		}
	}()

	address, err := s.addresses.GetForUser(ctx, req.UserID, req.AddressID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundError(ErrAddressNotFound, "Address not found")
	}
	if err != nil {
		s.logger.Error("address lookup failed", zap.Uint("user_id", req.UserID), zap.Error(err))
		return nil, StoreError("load address", err)
	}

	lines, err := s.carts.ListLines(ctx, req.UserID)
	if err != nil {
		s.logger.Error("cart lookup failed", zap.Uint("user_id", req.UserID), zap.Error(err))
		return nil, StoreError("load cart", err)
	}
	if len(lines) == 0 {
		return nil, &Error{Kind: KindValidation, Message: "Cart is empty", Err: ErrEmptyCart}
	}
	for _, line := range lines {
		if line.Quantity < 1 || line.Price.IsNegative() {
			return nil, ValidationError("cart line %d has an invalid price or quantity", line.ID)
		}
	}

	s.enrich(ctx, lines)

	subtotal := Subtotal(lines)
	shipping := s.shipping.Quote(subtotal)

	order := &models.Order{
		Reference:        uuid.NewString(),
		UserID:           req.UserID,
		AddressID:        address.ID,
		Address:          address.Snapshot(),
		Items:            snapshotItems(lines),
		Subtotal:         subtotal,
		Shipping:         shipping,
		TotalAmount:      subtotal.Add(shipping),
		PaymentMethod:    method,
		ExpectedDelivery: req.ExpectedDelivery,
		Status:           models.StatusProcessing,
	}

	lineIDs := make([]uint, len(lines))
	for i, line := range lines {
		lineIDs[i] = line.ID
	}

	if err := s.orders.PlaceOrder(ctx, order, lineIDs); err != nil {
		if errors.Is(err, repository.ErrCartChanged) {
			return nil, ConflictError(ErrCartChanged, "cart changed while checking out, please retry")
		}
		s.logger.Error("failed to place order", zap.Uint("user_id", req.UserID), zap.Error(err))
		return nil, StoreError("place order", err)
	}

	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.FinishTimeout)
	defer cancel()
	if err := s.orders.FinishCheckout(finishCtx, order.ID); err != nil {
		s.logger.Error("order placed but cart not cleared",
			zap.Uint("user_id", req.UserID),
			zap.Uint("order_id", order.ID),
			zap.Error(err))
		return nil, PartialCommitError(order.ID, err)
	}
	order.CartCleared = true

	s.logger.Info("order placed",
		zap.Uint("user_id", req.UserID),
		zap.Uint("order_id", order.ID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)))

	return order, nil
}

// enrich fills missing display fields of lines that reference a catalog
// product. Prices are never taken from the catalog.
func (s *CheckoutService) enrich(ctx context.Context, lines []models.CartLine) {
	if s.catalog == nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.EnrichConcurrency)

	for idx := range lines {
		line := &lines[idx]
		if line.ProductID == nil || (line.Name != "" && line.Purity != "" && line.Image != "") {
			continue
		}
		g.Go(func() error {
			product, err := s.catalog.Get(gctx, *line.ProductID)
			if err != nil {
				s.logger.Warn("catalog enrichment skipped",
					zap.Uint("cart_line_id", line.ID),
					zap.Uint("product_id", *line.ProductID),
					zap.Error(err))
				return nil
			}
			if line.Name == "" {
				line.Name = product.Title
			}
			if line.Purity == "" {
				line.Purity = product.Purity
			}
			if line.Image == "" {
				line.Image = product.FirstImage()
			}
			return nil
		})
	}
	_ = g.Wait()
}

func snapshotItems(lines []models.CartLine) []models.OrderItem {
	items := make([]models.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = models.OrderItem{
			Position:   i,
			CartLineID: line.ID,
			ProductID:  line.ProductID,
			Name:       line.Name,
			Price:      line.Price,
			Quantity:   line.Quantity,
			Purity:     line.Purity,
			Weight:     line.Weight,
			Image:      line.Image,
		}
	}
	return items
}

// Subtotal is the sum of price times quantity over lines.
func Subtotal(lines []models.CartLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	return subtotal
}
