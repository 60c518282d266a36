package routes

import (
	"github.com/furnishly/furnishly-api/controllers"
	"github.com/furnishly/furnishly-api/middlewares"
	"github.com/gin-gonic/gin"
)

func WishlistRoutes(server *gin.Engine) {
	wishlist := server.Group("/api/wishlist", middlewares.RequireAuth())
	{
		wishlist.GET("", controllers.GetUserWishlist)
		wishlist.POST("/add", controllers.AddToWishlist)
		wishlist.DELETE("/remove/:productId", controllers.RemoveFromWishlist)
		wishlist.DELETE("/clear", controllers.ClearWishlist)
	}
}
