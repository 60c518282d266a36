package controllers

import (
	"net/http"
	"time"

	"github.com/furnishly/furnishly-api/initializers"
	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Furnishly API.

The following are the endpoints for this API:

AUTH
- POST "/api/auth/magic-link" - Request a sign-in link
- POST "/api/auth/verify" - Exchange a sign-in code for a session token

PRODUCTS
- GET "/api/products" - List products
- GET "/api/products/:id" - Get product by ID

CART
- GET "/api/cart" - Get the signed-in user's cart
- POST "/api/cart/add" - Add a product to the cart
- PUT "/api/cart/update" - Update an item's quantity
- DELETE "/api/cart/remove/:productId" - Remove an item
- DELETE "/api/cart/clear" - Empty the cart

WISHLIST
- GET "/api/wishlist" - Get the signed-in user's wishlist
- POST "/api/wishlist/add" - Save a product for later
- DELETE "/api/wishlist/remove/:productId" - Remove an item

PAYMENTS
- POST "/api/payments/create-payment-intent" - Start a Stripe checkout
- POST "/api/payments/create-cod-order" - Place a cash on delivery order
- POST "/api/payments/confirm-payment" - Confirm after hosted checkout
- GET "/api/payments/history" - Order history
- GET "/api/payments/order/:orderId" - Get order by ID
- POST "/api/payments/webhook" - Stripe event callback

USERS
- GET/POST/PUT/DELETE "/api/users/profile" - Manage profile
- POST "/api/users/addresses" - Add a shipping address
- GET "/api/users/states" - Supported states
- GET "/api/users/states/:state/cities" - Supported cities for a state
- GET "/api/users/cities/suggest?q=" - City type-ahead suggestions`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

// GetHealth reports service liveness and database connectivity.
func GetHealth(ctx *gin.Context) {
	dbConnected := false
	if initializers.DB != nil {
		if sqlDB, err := initializers.DB.DB(); err == nil {
			dbConnected = sqlDB.Ping() == nil
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database": gin.H{
			"connected": dbConnected,
		},
	})
}
