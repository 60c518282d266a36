package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/furnishly/furnishly-api/initializers"
	"github.com/furnishly/furnishly-api/models"
	"github.com/furnishly/furnishly-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func findProfile(authUserId string) (models.UserProfile, error) {
	var profile models.UserProfile
	err := initializers.DB.Preload("Addresses").Where("auth_user_id = ?", authUserId).First(&profile).Error
	return profile, err
}

func GetUserProfile(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	profile, err := findProfile(authUserId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Profile not found")
		} else {
			log.Println("Profile query error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "profile": profile})
}

type profileInput struct {
	FirstName   string              `json:"firstName"`
	LastName    string              `json:"lastName"`
	Preferences *models.Preferences `json:"preferences"`
}

// CreateUserProfile upserts the profile for the signed-in user.
func CreateUserProfile(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")
	email := ctx.GetString("email")

	var input profileInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	profile, err := findProfile(authUserId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{
			AuthUserID: authUserId,
			Email:      email,
			IsActive:   true,
			LastLogin:  time.Now(),
		}
	} else if err != nil {
		log.Println("Profile query error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	profile.FirstName = input.FirstName
	profile.LastName = input.LastName
	if input.Preferences != nil {
		profile.Preferences = *input.Preferences
	}

	if err := initializers.DB.Save(&profile).Error; err != nil {
		log.Println("Profile save error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"success": true, "profile": profile})
}

func UpdateUserProfile(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	var input profileInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	profile, err := findProfile(authUserId)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Profile not found")
		return
	}

	updates := map[string]any{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
	}
	if input.Preferences != nil {
		updates["pref_email_notifications"] = input.Preferences.EmailNotifications
		updates["pref_marketing_emails"] = input.Preferences.MarketingEmails
		updates["pref_order_updates"] = input.Preferences.OrderUpdates
	}

	if err := initializers.DB.Model(&profile).Updates(updates).Error; err != nil {
		log.Println("Profile update error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	profile, _ = findProfile(authUserId)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "profile": profile})
}

// DeleteUserAccount removes the profile together with the user's cart and
// wishlist. Payment records are kept; they are an order history, not user
// preferences.
func DeleteUserAccount(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	profile, err := findProfile(authUserId)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Profile not found")
		return
	}

	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_profile_id = ?", profile.ID).Delete(&models.Address{}).Error; err != nil {
			return err
		}
		var cart models.Cart
		if err := tx.Where("auth_user_id = ?", authUserId).First(&cart).Error; err == nil {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&cart).Error; err != nil {
				return err
			}
		}
		var wishlist models.Wishlist
		if err := tx.Where("auth_user_id = ?", authUserId).First(&wishlist).Error; err == nil {
			if err := tx.Where("wishlist_id = ?", wishlist.ID).Delete(&models.WishlistItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&wishlist).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&profile).Error
	})
	if err != nil {
		log.Println("Account deletion error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": "Account deleted"})
}

// AddAddress validates and stores a shipping address. The store only keeps
// one address per user in practice, and at most one may be the default.
func AddAddress(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	var input struct {
		addressInput
		IsDefault bool `json:"isDefault"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	validation := addressValidator.Validate(utils.Address{
		Street:  input.Street,
		City:    input.City,
		State:   input.State,
		ZipCode: input.ZipCode,
		Country: input.Country,
	})
	if !validation.IsValid {
		sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
			"success":     false,
			"message":     "Invalid address",
			"errors":      validation.Errors,
			"suggestions": validation.Suggestions,
		})
		return
	}

	profile, err := findProfile(authUserId)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Profile not found")
		return
	}

	std := validation.StandardizedAddress
	address := models.Address{
		UserProfileID: profile.ID,
		Street:        std.Street,
		City:          std.City,
		State:         std.State,
		ZipCode:       std.ZipCode,
		Country:       std.Country,
		IsDefault:     input.IsDefault,
	}

	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_profile_id = ?", profile.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		log.Println("Address creation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save address")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"success": true, "address": address})
}

func UpdateAddress(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")
	addressId, err := strconv.Atoi(ctx.Param("addressId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse addressId")
		return
	}

	var input struct {
		addressInput
		IsDefault bool `json:"isDefault"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	validation := addressValidator.Validate(utils.Address{
		Street:  input.Street,
		City:    input.City,
		State:   input.State,
		ZipCode: input.ZipCode,
		Country: input.Country,
	})
	if !validation.IsValid {
		sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
			"success":     false,
			"message":     "Invalid address",
			"errors":      validation.Errors,
			"suggestions": validation.Suggestions,
		})
		return
	}

	profile, err := findProfile(authUserId)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Profile not found")
		return
	}

	var address models.Address
	if err := initializers.DB.
		Where("id = ? AND user_profile_id = ?", addressId, profile.ID).
		First(&address).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Address not found")
		return
	}

	std := validation.StandardizedAddress
	address.Street = std.Street
	address.City = std.City
	address.State = std.State
	address.ZipCode = std.ZipCode
	address.Country = std.Country
	address.IsDefault = input.IsDefault

	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_profile_id = ? AND id <> ?", profile.ID, address.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(&address).Error
	})
	if err != nil {
		log.Println("Address update error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update address")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "address": address})
}

func DeleteAddress(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")
	addressId, err := strconv.Atoi(ctx.Param("addressId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse addressId")
		return
	}

	profile, err := findProfile(authUserId)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Profile not found")
		return
	}

	result := initializers.DB.
		Where("id = ? AND user_profile_id = ?", addressId, profile.ID).
		Delete(&models.Address{})
	if result.Error != nil {
		log.Println("Address delete error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete address")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Address not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": "Address deleted"})
}

func SetDefaultAddress(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")
	addressId, err := strconv.Atoi(ctx.Param("addressId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse addressId")
		return
	}

	profile, err := findProfile(authUserId)
	if err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Profile not found")
		return
	}

	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Address{}).
			Where("user_profile_id = ?", profile.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		result := tx.Model(&models.Address{}).
			Where("id = ? AND user_profile_id = ?", addressId, profile.ID).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Address not found")
		} else {
			log.Println("Set default address error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to set default address")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": "Default address updated"})
}

func GetStates(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "states": utils.States()})
}

func GetCities(ctx *gin.Context) {
	state := ctx.Param("state")
	cities := utils.CitiesForState(state)
	if cities == nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Unknown state: "+state)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "cities": cities})
}

// GetCitySuggestions powers checkout type-ahead across all supported states.
func GetCitySuggestions(ctx *gin.Context) {
	input := ctx.Query("q")
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":     true,
		"suggestions": utils.SuggestCities(input),
	})
}
