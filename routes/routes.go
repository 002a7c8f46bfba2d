package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/abrekoglu/lignovia-store-sub001/controllers"
)

// RegisterRoutes registers all checkout service routes
func RegisterRoutes(r *gin.Engine, checkout *controllers.CheckoutController, inventory *controllers.InventoryController) {
	// Public storefront endpoints
	r.POST("/checkout", checkout.PlaceOrder)
	r.GET("/orders/:orderId", checkout.GetOrder)

	// Admin/internal endpoints for stock management
	inv := r.Group("/inventory")
	{
		inv.GET("/:productId", inventory.GetStock)
		inv.POST("", inventory.SetStock)
		inv.POST("/adjust", inventory.AdjustStock)
	}
}
