package handlers

import (
	"GoldShop/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
)

type checkoutRequest struct {
	UserID           uint   `json:"userId"`
	AddressID        uint   `json:"addressId"`
	PaymentMethod    string `json:"paymentMethod"`
	ExpectedDelivery string `json:"expectedDelivery"`
}

// CheckoutHandler places an order from the user's cart.
func CheckoutHandler(c *gin.Context, checkout *services.CheckoutService, logger *zap.Logger) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid checkout request: "+err.Error())
		return
	}

	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return
	}

	order, err := checkout.Checkout(c.Request.Context(), services.CheckoutRequest{
		UserID:           userID,
		AddressID:        req.AddressID,
		PaymentMethod:    req.PaymentMethod,
		ExpectedDelivery: req.ExpectedDelivery,
	})
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Order placed successfully",
		"orderId":     order.ID,
		"reference":   order.Reference,
		"subtotal":    order.Subtotal,
		"shipping":    order.Shipping,
		"totalAmount": order.TotalAmount,
	})
}
