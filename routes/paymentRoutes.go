package routes

import (
	"github.com/furnishly/furnishly-api/controllers"
	"github.com/furnishly/furnishly-api/middlewares"
	"github.com/gin-gonic/gin"
)

func PaymentRoutes(server *gin.Engine) {
	// The webhook is called by Stripe, not the user: no session auth, and
	// the handler reads the raw body for signature verification.
	server.POST("/api/payments/webhook", controllers.HandleStripeWebhook)

	payments := server.Group("/api/payments", middlewares.RequireAuth())
	{
		payments.POST("/create-payment-intent", controllers.CreatePaymentIntent)
		payments.POST("/create-cod-order", controllers.CreateCashOnDeliveryOrder)
		payments.POST("/confirm-payment", controllers.ConfirmPayment)
		payments.GET("/history", controllers.GetPaymentHistory)
		payments.GET("/order/:orderId", controllers.GetPaymentByOrderId)
		payments.POST("/update-status", controllers.UpdatePaymentStatus)
		payments.GET("/pending", middlewares.RequireAdmin(), controllers.GetPendingPayments)
	}
}
