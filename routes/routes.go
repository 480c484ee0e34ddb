package routes

import (
	"checkout-service/controllers"
	"checkout-service/middleware"

	"github.com/gin-gonic/gin"
)

func Register(
	r *gin.Engine,
	payment *controllers.PaymentController,
	cart *controllers.CartController,
	purchases *controllers.PurchaseController,
) {
	r.POST("/payment", middleware.RateLimitMiddleware(), payment.ProcessPayment)

	api := r.Group("/cart")
	{
		api.POST("/add", cart.AddItem)
		api.GET("/:userId", cart.GetCart)
	}

	r.GET("/purchases/:userId", purchases.GetPurchases)
}
