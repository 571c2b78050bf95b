package handlers

import (
	"GoldShop/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"net/http"
)

type addToCartRequest struct {
	UserID    uint             `json:"userId"`
	ProductID *uint            `json:"productId"`
	Name      string           `json:"name"`
	Price     *decimal.Decimal `json:"price"`
	Quantity  int              `json:"quantity"`
	Purity    string           `json:"purity"`
	Weight    string           `json:"weight"`
	Image     string           `json:"image"`
}

// AddToCartHandler records one add-to-cart action.
func AddToCartHandler(c *gin.Context, carts *services.CartService, logger *zap.Logger) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid cart item: "+err.Error())
		return
	}

	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return
	}

	line, err := carts.AddLine(c.Request.Context(), userID, services.CartItemInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Quantity:  req.Quantity,
		Purity:    req.Purity,
		Weight:    req.Weight,
		Image:     req.Image,
	})
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, line)
}

func GetCartHandler(c *gin.Context, carts *services.CartService, logger *zap.Logger) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	if userID, ok = actingUser(c, userID); !ok {
		return
	}

	lines, err := carts.ListLines(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    lines,
		"subtotal": services.Subtotal(lines),
	})
}

func DeleteCartItemHandler(c *gin.Context, carts *services.CartService, logger *zap.Logger) {
	lineID, ok := paramID(c, "cartLineId")
	if !ok {
		return
	}
	var userID uint
	if raw := c.Query("userId"); raw != "" {
		if userID, ok = parseID(c, raw, "userId"); !ok {
			return
		}
	}
	if userID, ok = actingUser(c, userID); !ok {
		return
	}

	if err := carts.RemoveLine(c.Request.Context(), userID, lineID); err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed",
	})
}

func ClearCartHandler(c *gin.Context, carts *services.CartService, logger *zap.Logger) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	if userID, ok = actingUser(c, userID); !ok {
		return
	}

	n, err := carts.Clear(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
		"removed": n,
	})
}
