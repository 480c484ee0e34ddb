package controllers

import (
	"net/http"

	"checkout-service/models"
	"checkout-service/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PurchaseController struct {
	Ledger repository.PurchaseLedger
	Logger *zap.Logger
}

func NewPurchaseController(ledger repository.PurchaseLedger, logger *zap.Logger) *PurchaseController {
	return &PurchaseController{
		Ledger: ledger,
		Logger: logger,
	}
}

// GetPurchases lists the user's completed purchases.
func (pc *PurchaseController) GetPurchases(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required."})
		return
	}

	records, err := pc.Ledger.FindByUser(c.Request.Context(), userID)
	if err != nil {
		pc.Logger.Error("failed to list purchases",
			zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
		return
	}

	if records == nil {
		records = []models.PurchaseRecord{}
	}
	c.JSON(http.StatusOK, records)
}
