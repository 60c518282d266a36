package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/furnishly/furnishly-api/initializers"
	"github.com/furnishly/furnishly-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type productInput struct {
	ID       string   `json:"_id" binding:"required"`
	Title    string   `json:"title" binding:"required"`
	Price    float64  `json:"price" binding:"required"`
	Images   []string `json:"images"`
	Category string   `json:"category"`
	Material string   `json:"material"`
}

// getOrCreateCart lazily creates an empty cart on first access. This is a
// deliberate convenience for "get" operations, not an error path.
func getOrCreateCart(authUserId string) (models.Cart, error) {
	var cart models.Cart
	err := initializers.DB.Preload("Items").Where("auth_user_id = ?", authUserId).First(&cart).Error
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return cart, err
	}

	cart = models.Cart{AuthUserID: authUserId}
	if result := initializers.DB.Create(&cart); result.Error != nil {
		return cart, result.Error
	}
	return cart, nil
}

func GetUserCart(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	cart, err := getOrCreateCart(authUserId)
	if err != nil {
		log.Println("Get cart error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to get cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "data": cart})
}

// AddToCart adds a product to the cart, bumping quantity by one when the
// product is already present.
func AddToCart(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	var body struct {
		Product productInput `json:"product" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Product data is required")
		return
	}

	cart, err := getOrCreateCart(authUserId)
	if err != nil {
		log.Println("Get cart error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	var existing models.CartItem
	err = initializers.DB.
		Where("cart_id = ? AND product_id = ?", cart.ID, body.Product.ID).
		First(&existing).Error
	if err == nil {
		existing.Quantity++
		if err := initializers.DB.Save(&existing).Error; err != nil {
			log.Println("Cart item update error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add to cart")
			return
		}
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		item := models.CartItem{
			CartID:    cart.ID,
			ProductID: body.Product.ID,
			Title:     body.Product.Title,
			Price:     body.Product.Price,
			Images:    body.Product.Images,
			Category:  body.Product.Category,
			Material:  body.Product.Material,
			Quantity:  1,
			AddedAt:   time.Now(),
		}
		if err := initializers.DB.Create(&item).Error; err != nil {
			log.Println("Cart item creation error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add to cart")
			return
		}
	} else {
		log.Println("Cart item lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	reloadCartAndRespond(ctx, authUserId)
}

// UpdateCartItem sets an item's quantity; zero or below removes the item.
func UpdateCartItem(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	var body struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  *int   `json:"quantity" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Product ID and quantity are required")
		return
	}

	var cart models.Cart
	if err := initializers.DB.Where("auth_user_id = ?", authUserId).First(&cart).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Cart not found")
		return
	}

	var item models.CartItem
	err := initializers.DB.
		Where("cart_id = ? AND product_id = ?", cart.ID, body.ProductID).
		First(&item).Error
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Item not found in cart")
		return
	}

	if *body.Quantity <= 0 {
		if err := initializers.DB.Delete(&item).Error; err != nil {
			log.Println("Cart item delete error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update cart item")
			return
		}
	} else {
		item.Quantity = *body.Quantity
		if err := initializers.DB.Save(&item).Error; err != nil {
			log.Println("Cart item update error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update cart item")
			return
		}
	}

	reloadCartAndRespond(ctx, authUserId)
}

func RemoveFromCart(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")
	productId := ctx.Param("productId")

	var cart models.Cart
	if err := initializers.DB.Where("auth_user_id = ?", authUserId).First(&cart).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Cart not found")
		return
	}

	result := initializers.DB.
		Where("cart_id = ? AND product_id = ?", cart.ID, productId).
		Delete(&models.CartItem{})
	if result.Error != nil {
		log.Println("Cart item delete error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to remove from cart")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Item not found in cart")
		return
	}

	reloadCartAndRespond(ctx, authUserId)
}

func ClearCart(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	var cart models.Cart
	if err := initializers.DB.Where("auth_user_id = ?", authUserId).First(&cart).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Cart not found")
		return
	}

	if err := initializers.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		log.Println("Cart clear error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	reloadCartAndRespond(ctx, authUserId)
}

// ClearCartAfterPayment is the endpoint COD checkout calls once the order is
// placed, since no webhook will arrive to do it.
func ClearCartAfterPayment(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	var cart models.Cart
	err := initializers.DB.Where("auth_user_id = ?", authUserId).First(&cart).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Cart lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	if err == nil {
		if err := initializers.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			log.Println("Cart clear error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to clear cart")
			return
		}
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
}

func reloadCartAndRespond(ctx *gin.Context, authUserId string) {
	var cart models.Cart
	if err := initializers.DB.Preload("Items").Where("auth_user_id = ?", authUserId).First(&cart).Error; err != nil {
		log.Println("Cart reload error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "data": cart})
}
