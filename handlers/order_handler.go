package handlers

import (
	"GoldShop/services"
	"bytes"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
)

func GetUserOrdersHandler(c *gin.Context, orders *services.OrderService, logger *zap.Logger) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	if userID, ok = actingUser(c, userID); !ok {
		return
	}

	list, err := orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": list,
	})
}

func GetAllOrdersHandler(c *gin.Context, orders *services.OrderService, logger *zap.Logger) {
	list, err := orders.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func GetOrderHandler(c *gin.Context, orders *services.OrderService, logger *zap.Logger) {
	orderID, ok := paramID(c, "orderId")
	if !ok {
		return
	}

	order, err := orders.Get(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	if _, ok := actingUser(c, order.UserID); !ok {
		return
	}

	c.JSON(http.StatusOK, order)
}

func UpdateOrderStatusHandler(c *gin.Context, orders *services.OrderService, logger *zap.Logger) {
	var req struct {
		OrderID uint   `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid status update: "+err.Error())
		return
	}

	order, err := orders.UpdateStatus(c.Request.Context(), req.OrderID, req.Status)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"orderId": order.ID,
		"status":  order.Status,
	})
}

func ReconcileOrdersHandler(c *gin.Context, orders *services.OrderService, logger *zap.Logger) {
	n, err := orders.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reconciled": n,
	})
}

func ExportOrdersHandler(c *gin.Context, orders services.OrderLister, logger *zap.Logger) {
	var buf bytes.Buffer
	if err := services.ExportOrders(c.Request.Context(), orders, &buf); err != nil {
		respondError(c, logger, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
