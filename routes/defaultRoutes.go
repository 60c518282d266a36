package routes

import (
	"github.com/furnishly/furnishly-api/controllers"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/api/health", controllers.GetHealth)
}
