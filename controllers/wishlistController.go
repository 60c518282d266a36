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

func getOrCreateWishlist(authUserId string) (models.Wishlist, error) {
	var wishlist models.Wishlist
	err := initializers.DB.Preload("Items").Where("auth_user_id = ?", authUserId).First(&wishlist).Error
	if err == nil {
		return wishlist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return wishlist, err
	}

	wishlist = models.Wishlist{AuthUserID: authUserId}
	if result := initializers.DB.Create(&wishlist); result.Error != nil {
		return wishlist, result.Error
	}
	return wishlist, nil
}

func GetUserWishlist(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	wishlist, err := getOrCreateWishlist(authUserId)
	if err != nil {
		log.Println("Get wishlist error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to get wishlist")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "data": wishlist})
}

// AddToWishlist saves a product for later. Unlike the cart there are no
// quantities, so adding an existing product is rejected.
func AddToWishlist(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	var body struct {
		Product productInput `json:"product" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Product data is required")
		return
	}

	wishlist, err := getOrCreateWishlist(authUserId)
	if err != nil {
		log.Println("Get wishlist error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add to wishlist")
		return
	}

	var existing models.WishlistItem
	err = initializers.DB.
		Where("wishlist_id = ? AND product_id = ?", wishlist.ID, body.Product.ID).
		First(&existing).Error
	if err == nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Product already in wishlist")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Wishlist item lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add to wishlist")
		return
	}

	item := models.WishlistItem{
		WishlistID: wishlist.ID,
		ProductID:  body.Product.ID,
		Title:      body.Product.Title,
		Price:      body.Product.Price,
		Images:     body.Product.Images,
		Category:   body.Product.Category,
		Material:   body.Product.Material,
		AddedAt:    time.Now(),
	}
	if err := initializers.DB.Create(&item).Error; err != nil {
		log.Println("Wishlist item creation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to add to wishlist")
		return
	}

	reloadWishlistAndRespond(ctx, authUserId)
}

func RemoveFromWishlist(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")
	productId := ctx.Param("productId")

	var wishlist models.Wishlist
	if err := initializers.DB.Where("auth_user_id = ?", authUserId).First(&wishlist).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Wishlist not found")
		return
	}

	result := initializers.DB.
		Where("wishlist_id = ? AND product_id = ?", wishlist.ID, productId).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		log.Println("Wishlist item delete error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to remove from wishlist")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Item not found in wishlist")
		return
	}

	reloadWishlistAndRespond(ctx, authUserId)
}

func ClearWishlist(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	var wishlist models.Wishlist
	if err := initializers.DB.Where("auth_user_id = ?", authUserId).First(&wishlist).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Wishlist not found")
		return
	}

	if err := initializers.DB.Where("wishlist_id = ?", wishlist.ID).Delete(&models.WishlistItem{}).Error; err != nil {
		log.Println("Wishlist clear error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to clear wishlist")
		return
	}

	reloadWishlistAndRespond(ctx, authUserId)
}

func reloadWishlistAndRespond(ctx *gin.Context, authUserId string) {
	var wishlist models.Wishlist
	if err := initializers.DB.Preload("Items").Where("auth_user_id = ?", authUserId).First(&wishlist).Error; err != nil {
		log.Println("Wishlist reload error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to load wishlist")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "data": wishlist})
}
