package routes

import (
	"github.com/furnishly/furnishly-api/controllers"
	"github.com/furnishly/furnishly-api/middlewares"
	"github.com/gin-gonic/gin"
)

func UserRoutes(server *gin.Engine) {
	server.GET("/api/users/states", controllers.GetStates)
	server.GET("/api/users/states/:state/cities", controllers.GetCities)
	server.GET("/api/users/cities/suggest", controllers.GetCitySuggestions)

	users := server.Group("/api/users", middlewares.RequireAuth())
	{
		users.GET("/profile", controllers.GetUserProfile)
		users.POST("/profile", controllers.CreateUserProfile)
		users.PUT("/profile", controllers.UpdateUserProfile)
		users.DELETE("/account", controllers.DeleteUserAccount)

		users.POST("/addresses", controllers.AddAddress)
		users.PUT("/addresses/:addressId", controllers.UpdateAddress)
		users.DELETE("/addresses/:addressId", controllers.DeleteAddress)
		users.PUT("/addresses/:addressId/default", controllers.SetDefaultAddress)
	}
}
