package controllers

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "checkout-service/errors"
	"checkout-service/models"
	"checkout-service/repository"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartController struct {
	Cart    repository.CartStore
	Catalog services.CatalogClient
	Logger  *zap.Logger
}

func NewCartController(cart repository.CartStore, catalog services.CatalogClient, logger *zap.Logger) *CartController {
	return &CartController{
		Cart:    cart,
		Catalog: catalog,
		Logger:  logger,
	}
}

// AddItem puts a course into the user's cart. The course name and price
// are snapshotted from the catalog, and a pre-insert existence check
// keeps at most one line per (user, course) pair.
func (cc *CartController) AddItem(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		cc.Logger.Warn("invalid add-to-cart payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item data. UserId and productId are required."})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	ctx := c.Request.Context()

	course, err := cc.Catalog.FetchCourseByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			appErr := apperrors.WithMessage(apperrors.ErrNotFoundDownstream,
				fmt.Sprintf("Course with ID '%s' not found.", req.ProductID))
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			return
		}
		cc.Logger.Error("course catalog lookup failed",
			zap.String("product_id", req.ProductID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing the request."})
		return
	}

	existing, err := cc.Cart.FindLine(ctx, req.UserID, req.ProductID)
	if err != nil {
		cc.Logger.Error("cart lookup failed",
			zap.String("user_id", req.UserID),
			zap.String("product_id", req.ProductID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing the request."})
		return
	}
	if existing != nil {
		appErr := apperrors.WithMessage(apperrors.ErrDuplicateCartLine,
			fmt.Sprintf("Course '%s' is already in your cart.", existing.ProductName))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	line := &models.CartLine{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		ProductID:   req.ProductID,
		ProductName: course.Name,
		Price:       course.Price,
		Quantity:    req.Quantity,
	}
	if err := cc.Cart.InsertLine(ctx, line); err != nil {
		cc.Logger.Error("failed to insert cart line",
			zap.String("user_id", req.UserID),
			zap.String("product_id", req.ProductID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing the request."})
		return
	}

	cc.Logger.Info("cart line added",
		zap.String("user_id", req.UserID),
		zap.String("product_id", req.ProductID),
		zap.String("cart_line_id", line.ID))

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("New item '%s' added to cart successfully.", course.Name),
		"id":      line.ID,
	})
}

// GetCart returns every pending line for a user; an empty cart is an
// empty array, not an error.
func (cc *CartController) GetCart(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required."})
		return
	}

	lines, err := cc.Cart.FindLines(c.Request.Context(), userID)
	if err != nil {
		cc.Logger.Error("failed to get cart",
			zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
		return
	}

	if lines == nil {
		lines = []models.CartLine{}
	}
	c.JSON(http.StatusOK, lines)
}
