package handlers

import (
	"GoldShop/models"
	"GoldShop/repository"
	"GoldShop/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
	"strings"
)

const maxSellerImages = 10

func CreateSellerListingHandler(c *gin.Context, sellers *repository.SellerRepository, store *storage.LocalStore, logger *zap.Logger) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		badRequest(c, "name is required")
		return
	}
	price, ok := formDecimal(c, "price")
	if !ok {
		return
	}

	urls, ok := saveFormImages(c, store, logger, "images", maxSellerImages)
	if !ok {
		return
	}

	listing := models.SellerListing{
		Name:        name,
		Category:    c.PostForm("category"),
		Weight:      c.PostForm("weight"),
		Purity:      c.PostForm("purity"),
		Condition:   c.PostForm("condition"),
		Price:       price,
		Description: c.PostForm("description"),
		Images:      urls,
	}
	if err := sellers.Create(c.Request.Context(), &listing); err != nil {
		removeImages(store, logger, urls)
		respondStoreError(c, logger, "create seller listing", "", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Seller gold product added successfully",
		"data":    listing,
	})
}

func GetSellerListingsHandler(c *gin.Context, sellers *repository.SellerRepository, logger *zap.Logger) {
	list, err := sellers.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, logger, "list seller listings", "", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func DeleteSellerListingHandler(c *gin.Context, sellers *repository.SellerRepository, store *storage.LocalStore, logger *zap.Logger) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	listing, err := sellers.Delete(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, logger, "delete seller listing", "Listing not found", err)
		return
	}
	removeImages(store, logger, listing.Images)

	c.JSON(http.StatusOK, gin.H{
		"message": "Listing deleted",
	})
}
