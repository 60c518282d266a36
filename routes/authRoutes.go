package routes

import (
	"github.com/furnishly/furnishly-api/controllers"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine) {
	auth := server.Group("/api/auth")
	{
		auth.POST("/magic-link", controllers.RequestMagicLink)
		auth.POST("/verify", controllers.VerifyMagicLink)
	}
}
