package handlers

import (
	"GoldShop/middleware"
	"GoldShop/repository"
	"GoldShop/services"
	"errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
	"strconv"
)

func statusForError(err error) int {
	if errors.Is(err, services.ErrAddressNotFound) {
		return http.StatusBadRequest
	}
	switch services.KindOf(err) {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		// store failures and partial commits; the body's kind tells them apart
		return http.StatusInternalServerError
	}
}

// respondError writes a service error as {"error", "kind"}.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusForError(err)
	body := gin.H{
		"error": err.Error(),
		"kind":  services.KindOf(err),
	}

	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		body["error"] = svcErr.Message
		if svcErr.OrderID != 0 {
			body["orderId"] = svcErr.OrderID
		}
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, body)
}

// respondStoreError reports a repository failure; a missing row becomes 404
// with the notFound message.
func respondStoreError(c *gin.Context, logger *zap.Logger, op, notFound string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, logger, services.NotFoundError(repository.ErrNotFound, notFound))
		return
	}
	respondError(c, logger, services.StoreError(op, err))
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": message,
		"kind":  services.KindValidation,
	})
}

func parseID(c *gin.Context, raw, field string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+field)
		return 0, false
	}
	return uint(id), true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	return parseID(c, c.Param(name), name)
}

// actingUser decides which user a request acts for. Anonymous callers act for
// the id they send; logged-in callers only for themselves unless admin.
func actingUser(c *gin.Context, requested uint) (uint, bool) {
	v, loggedIn := c.Get("UserID")
	if !loggedIn {
		return requested, true
	}
	self, _ := v.(uint)
	if requested == 0 || requested == self {
		return self, true
	}
	if c.GetString("Role") == middleware.AdminRole {
		return requested, true
	}
	c.JSON(http.StatusForbidden, gin.H{
		"error": "cannot act for another user",
	})
	return 0, false
}
