package controllers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/furnishly/furnishly-api/initializers"
	"github.com/furnishly/furnishly-api/models"
	"github.com/furnishly/furnishly-api/utils"
	"github.com/gin-gonic/gin"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubmitContactForm accepts messages from signed-in and anonymous visitors
// alike. The admin notification and auto-reply emails are best effort; a
// mail failure never loses the stored message.
func SubmitContactForm(ctx *gin.Context) {
	var body struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Email     string `json:"email" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Please fill in all required fields")
		return
	}

	if !emailRegex.MatchString(body.Email) {
		sendErrorResponse(ctx, http.StatusBadRequest, "Please enter a valid email address")
		return
	}

	contact := models.Contact{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Message:   body.Message,
		UserID:    ctx.GetString("authUserId"),
	}
	if result := initializers.DB.Create(&contact); result.Error != nil {
		log.Println("Contact creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to submit contact form")
		return
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail != "" {
		err := utils.SendEmail(adminEmail, "New contact form submission", utils.EmailData{
			Name:    body.FirstName + " " + body.LastName,
			Message: body.Message,
		}, filepath.Join("templates", "contact_notification.html"))
		if err != nil {
			log.Println("Failed to send admin notification email:", err)
		}
	}

	err := utils.SendEmail(body.Email, "We received your message", utils.EmailData{
		Name:    body.FirstName,
		Message: "Thanks for reaching out. Our team will get back to you within two business days.",
	}, filepath.Join("templates", "contact_reply.html"))
	if err != nil {
		log.Println("Failed to send auto-reply email:", err)
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Message received",
		"contactId": contact.ID,
	})
}

func GetAllContacts(ctx *gin.Context) {
	var contacts []models.Contact
	result := initializers.DB.Order("created_at desc").Find(&contacts)
	if result.Error != nil {
		log.Println("Contacts query error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch contacts")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "contacts": contacts})
}

func UpdateContactStatus(ctx *gin.Context) {
	contactId, err := strconv.Atoi(ctx.Param("contactId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse contactId")
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	result := initializers.DB.Model(&models.Contact{}).
		Where("id = ?", contactId).
		Update("status", body.Status)
	if result.Error != nil {
		log.Println("Contact status update error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update contact status")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Contact not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": "Contact status updated"})
}
