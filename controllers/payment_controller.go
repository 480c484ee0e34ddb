package controllers

import (
	"errors"
	"net/http"

	apperrors "checkout-service/errors"
	"checkout-service/models"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentController struct {
	Checkout services.CheckoutService
	Logger   *zap.Logger
}

func NewPaymentController(checkout services.CheckoutService, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		Checkout: checkout,
		Logger:   logger,
	}
}

// ProcessPayment converts the caller's cart (or one targeted course)
// into purchase records. Existing callers detect success by looking for
// the substring "successfully" in the message, so the success body
// always carries it.
func (pc *PaymentController) ProcessPayment(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pc.Logger.Warn("invalid payment payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format."})
		return
	}

	result, err := pc.Checkout.Checkout(c.Request.Context(), req)
	if err != nil {
		var appErr *apperrors.Error
		if !errors.As(err, &appErr) {
			appErr = apperrors.Wrap(apperrors.ErrPersistence, err)
		}

		if appErr.Code >= http.StatusInternalServerError {
			pc.Logger.Error("checkout failed",
				zap.String("user_id", req.UserID),
				zap.String("course_id", req.CourseID),
				zap.Error(err))
		} else {
			pc.Logger.Warn("checkout rejected",
				zap.String("user_id", req.UserID),
				zap.String("course_id", req.CourseID),
				zap.String("reason", appErr.Kind))
		}

		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	pc.Logger.Info("checkout completed",
		zap.String("user_id", req.UserID),
		zap.Int("item_count", result.ItemCount))

	c.JSON(http.StatusOK, gin.H{"message": result.Message})
}
