package routes

import (
	"github.com/furnishly/furnishly-api/controllers"
	"github.com/furnishly/furnishly-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ContactRoutes(server *gin.Engine) {
	server.POST("/api/contact", controllers.SubmitContactForm)
	server.GET("/api/contact", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.GetAllContacts)
	server.PATCH("/api/contact/:contactId/status", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.UpdateContactStatus)
}
