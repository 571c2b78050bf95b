package handlers

import (
	"GoldShop/models"
	"GoldShop/repository"
	"GoldShop/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
	"strconv"
	"strings"
)

const maxProductImages = 10

// CreateProductHandler adds a catalog product from a multipart form with up
// to ten images under "image_urls".
func CreateProductHandler(c *gin.Context, products *repository.ProductRepository, store *storage.LocalStore, logger *zap.Logger) {
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		badRequest(c, "title is required")
		return
	}
	price, ok := formDecimal(c, "price")
	if !ok {
		return
	}
	stock := 0
	if raw := c.PostForm("stock"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "invalid stock")
			return
		}
		stock = n
	}

	urls, ok := saveFormImages(c, store, logger, "image_urls", maxProductImages)
	if !ok {
		return
	}

	product := models.Product{
		SKU:       c.PostForm("productId"),
		Title:     title,
		Purity:    c.PostForm("purity"),
		Weight:    c.PostForm("weight"),
		Price:     price,
		Stock:     stock,
		Featured:  c.PostForm("featured") == "true",
		ImageURLs: urls,
	}
	if err := products.Create(c.Request.Context(), &product); err != nil {
		removeImages(store, logger, urls)
		respondStoreError(c, logger, "create product", "", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product added",
		"id":      product.ID,
		"product": product,
	})
}

func GetProductsHandler(c *gin.Context, products *repository.ProductRepository, logger *zap.Logger) {
	list, err := products.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, logger, "list products", "", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func GetProductHandler(c *gin.Context, products *repository.ProductRepository, logger *zap.Logger) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := products.Get(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, logger, "load product", "Product not found", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func DeleteProductHandler(c *gin.Context, products *repository.ProductRepository, store *storage.LocalStore, logger *zap.Logger) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := products.Delete(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, logger, "delete product", "Product not found", err)
		return
	}
	removeImages(store, logger, product.ImageURLs)

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}
