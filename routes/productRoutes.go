package routes

import (
	"github.com/furnishly/furnishly-api/controllers"
	"github.com/furnishly/furnishly-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/api/products", controllers.GetProducts)
	server.GET("/api/products/:id", controllers.GetProduct)

	admin := server.Group("/api/products", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateProduct)
		admin.PUT("/:id", controllers.UpdateProduct)
		admin.DELETE("/:id", controllers.DeleteProduct)
		admin.POST("/:id/images", controllers.UploadProductImages)
	}
}
