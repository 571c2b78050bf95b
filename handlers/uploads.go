package handlers

import (
	"GoldShop/storage"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"net/http"
	"strings"
)

// saveFormImages stores the files sent under field, at most limit of them.
func saveFormImages(c *gin.Context, store *storage.LocalStore, logger *zap.Logger, field string, limit int) ([]string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "expected multipart form: "+err.Error())
		return nil, false
	}

	files := form.File[field]
	if len(files) > limit {
		badRequest(c, fmt.Sprintf("at most %d images allowed in %q", limit, field))
		return nil, false
	}

	urls, err := store.SaveImages(files)
	if errors.Is(err, storage.ErrInvalidImage) {
		badRequest(c, err.Error())
		return nil, false
	}
	if err != nil {
		logger.Error("saving images failed", zap.String("field", field), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "could not store images",
		})
		return nil, false
	}
	return urls, true
}

// removeImages deletes stored images once. Failures are logged only.
func removeImages(store *storage.LocalStore, logger *zap.Logger, urls []string) {
	for _, url := range urls {
		if err := store.Remove(url); err != nil {
			logger.Warn("image cleanup failed", zap.String("url", url), zap.Error(err))
		}
	}
}

// formDecimal parses an optional money field; "" is zero.
func formDecimal(c *gin.Context, field string) (decimal.Decimal, bool) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		badRequest(c, "invalid "+field)
		return decimal.Zero, false
	}
	return d, true
}
