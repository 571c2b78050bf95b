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

const maxLoanImages = 5

func CreateGoldLoanHandler(c *gin.Context, loans *repository.GoldLoanRepository, store *storage.LocalStore, logger *zap.Logger) {
	fullName := strings.TrimSpace(c.PostForm("fullname"))
	mobile := strings.TrimSpace(c.PostForm("mobile"))
	if fullName == "" || mobile == "" {
		badRequest(c, "fullname and mobile are required")
		return
	}
	amount, ok := formDecimal(c, "loanamount")
	if !ok {
		return
	}

	urls, ok := saveFormImages(c, store, logger, "image", maxLoanImages)
	if !ok {
		return
	}

	loan := models.GoldLoan{
		Bank:       c.PostForm("bank"),
		FullName:   fullName,
		Mobile:     mobile,
		Address:    c.PostForm("address"),
		GoldWeight: c.PostForm("goldweight"),
		GoldType:   c.PostForm("goldtype"),
		IDProof:    c.PostForm("idproof"),
		LoanAmount: amount,
		Remarks:    c.PostForm("remarks"),
		Images:     urls,
	}
	if err := loans.Create(c.Request.Context(), &loan); err != nil {
		removeImages(store, logger, urls)
		respondStoreError(c, logger, "create gold loan request", "", err)
		return
	}

	c.JSON(http.StatusCreated, loan)
}

func GetGoldLoansHandler(c *gin.Context, loans *repository.GoldLoanRepository, logger *zap.Logger) {
	list, err := loans.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, logger, "list gold loan requests", "", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func DeleteGoldLoanHandler(c *gin.Context, loans *repository.GoldLoanRepository, store *storage.LocalStore, logger *zap.Logger) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	loan, err := loans.Delete(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, logger, "delete gold loan request", "Loan request not found", err)
		return
	}
	removeImages(store, logger, loan.Images)

	c.JSON(http.StatusOK, gin.H{
		"message": "Loan request deleted",
	})
}
