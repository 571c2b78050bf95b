package services

import (
	"GoldShop/models"
	"GoldShop/repository"
	"context"
	"errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartStore interface {
	ListLines(ctx context.Context, userID uint) ([]models.CartLine, error)
	AddOrMerge(ctx context.Context, line *models.CartLine) (bool, error)
	Remove(ctx context.Context, userID, lineID uint) error
	Clear(ctx context.Context, userID uint) (int64, error)
}

// CartItemInput is what a client sends to add to the cart. Fields left empty
// are filled from the catalog when ProductID is set.
type CartItemInput struct {
	ProductID *uint
	Name      string
	Price     *decimal.Decimal
	Quantity  int
	Purity    string
	Weight    string
	Image     string
}

type CartService struct {
	carts   CartStore
	catalog Catalog
	logger  *zap.Logger
}

func NewCartService(carts CartStore, catalog Catalog, logger *zap.Logger) *CartService {
	return &CartService{carts: carts, catalog: catalog, logger: logger}
}

// AddLine records an add-to-cart action. A repeated add of the same product
// increases the quantity of the existing line; items without a product
// reference always become a new line.
func (s *CartService) AddLine(ctx context.Context, userID uint, in CartItemInput) (*models.CartLine, error) {
	if userID == 0 {
		return nil, ValidationError("userId is required")
	}
	if in.Quantity < 1 {
		return nil, ValidationError("quantity must be at least 1")
	}

	line := &models.CartLine{
		UserID:    userID,
		ProductID: in.ProductID,
		Name:      in.Name,
		Quantity:  in.Quantity,
		Purity:    in.Purity,
		Weight:    in.Weight,
		Image:     in.Image,
	}
	if in.Price != nil {
		line.Price = *in.Price
	}

	if in.ProductID != nil && s.catalog != nil && (in.Price == nil || in.Name == "" || in.Purity == "" || in.Weight == "" || in.Image == "") {
		product, err := s.catalog.Get(ctx, *in.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError(repository.ErrNotFound, "Product not found")
		}
		if err != nil {
			return nil, StoreError("load product", err)
		}
		fillFromProduct(line, product, in.Price == nil)
	} else if in.Price == nil {
		return nil, ValidationError("price is required")
	}

	if line.Name == "" {
		return nil, ValidationError("name is required")
	}
	if line.Price.IsNegative() {
		return nil, ValidationError("price must not be negative")
	}

	merged, err := s.carts.AddOrMerge(ctx, line)
	if err != nil {
		return nil, StoreError("add cart line", err)
	}
	s.logger.Debug("cart line added",
		zap.Uint("user_id", userID),
		zap.Uint("cart_line_id", line.ID),
		zap.Bool("merged", merged))
	return line, nil
}

func fillFromProduct(line *models.CartLine, product *models.Product, takePrice bool) {
	if takePrice {
		line.Price = product.Price
	}
	if line.Name == "" {
		line.Name = product.Title
	}
	if line.Purity == "" {
		line.Purity = product.Purity
	}
	if line.Weight == "" {
		line.Weight = product.Weight
	}
	if line.Image == "" {
		line.Image = product.FirstImage()
	}
}

func (s *CartService) ListLines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	if userID == 0 {
		return nil, ValidationError("userId is required")
	}
	lines, err := s.carts.ListLines(ctx, userID)
	if err != nil {
		return nil, StoreError("list cart", err)
	}
	return lines, nil
}

func (s *CartService) RemoveLine(ctx context.Context, userID, lineID uint) error {
	if userID == 0 || lineID == 0 {
		return ValidationError("userId and cartLineId are required")
	}
	err := s.carts.Remove(ctx, userID, lineID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundError(repository.ErrNotFound, "Cart item not found")
	}
	if err != nil {
		return StoreError("remove cart line", err)
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, ValidationError("userId is required")
	}
	n, err := s.carts.Clear(ctx, userID)
	if err != nil {
		return 0, StoreError("clear cart", err)
	}
	return n, nil
}
