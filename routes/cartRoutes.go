package routes

import (
	"github.com/furnishly/furnishly-api/controllers"
	"github.com/furnishly/furnishly-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/api/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetUserCart)
		cart.POST("/add", controllers.AddToCart)
		cart.PUT("/update", controllers.UpdateCartItem)
		cart.DELETE("/remove/:productId", controllers.RemoveFromCart)
		cart.DELETE("/clear", controllers.ClearCart)
		cart.POST("/clear-after-payment", controllers.ClearCartAfterPayment)
	}
}
