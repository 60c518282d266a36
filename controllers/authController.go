package controllers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/furnishly/furnishly-api/initializers"
	"github.com/furnishly/furnishly-api/models"
	"github.com/furnishly/furnishly-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// Default cost for bcrypt code hashing
	bcryptCost = 10

	// Magic link codes expire after this long
	magicLinkTTL = 15 * time.Minute

	// Standard response messages
	msgInvalidInput        = "invalid input"
	msgInternalServerError = "Internal server error"
	msgMagicLinkSent       = "Check your email for a sign-in link."
	msgInvalidMagicLink    = "Invalid or expired sign-in code"
	msgFailedToIssueToken  = "failed to generate session token"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"success": false, "message": message})
}

func hashLoginCode(code string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func compareLoginCodes(hashedCode, code string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(code))
}

func generateSessionJWT(profile models.UserProfile) (string, error) {
	role := "user"
	if adminEmail := os.Getenv("ADMIN_EMAIL"); adminEmail != "" && profile.Email == adminEmail {
		role = "admin"
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   profile.AuthUserID,
		"email": profile.Email,
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(jwtSecret))
}

// Send a magic link email carrying the one-time sign-in code
func sendMagicLinkEmail(email, code string) error {
	emailData := utils.EmailData{
		Name:      email,
		Message:   "Use the button below to sign in to Furnishly. The link expires in 15 minutes.",
		ActionURL: os.Getenv("FRONTEND_URL") + "/auth/verify?email=" + url.QueryEscape(email) + "&code=" + url.QueryEscape(code),
		Code:      code,
		LogoURL:   os.Getenv("FRONTEND_URL") + "/images/logo.png",
	}

	templatePath := filepath.Join("templates", "magic_link.html")
	return utils.SendEmail(email, "Sign in to Furnishly", emailData, templatePath)
}

// RequestMagicLink emails a single-use sign-in code. Only the bcrypt hash of
// the code is persisted. The response is the same whether or not the email
// is known, so the endpoint cannot be used to probe accounts.
func RequestMagicLink(ctx *gin.Context) {
	type MagicLinkBody struct {
		Email string `json:"email" binding:"required,email"`
	}

	var body MagicLinkBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	code, err := utils.GenerateCode(16)
	if err != nil {
		log.Println("Code generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	codeHash, err := hashLoginCode(code)
	if err != nil {
		log.Println("Code hashing error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	loginCode := models.LoginCode{
		Email:     body.Email,
		CodeHash:  codeHash,
		ExpiresAt: time.Now().Add(magicLinkTTL),
	}
	if result := initializers.DB.Create(&loginCode); result.Error != nil {
		log.Println("Login code creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := sendMagicLinkEmail(body.Email, code); err != nil {
		log.Println("Error sending magic link email:", err)
		// Continue despite email error, but log it
	} else {
		log.Println("Magic link email sent successfully to:", body.Email)
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": msgMagicLinkSent})
}

// VerifyMagicLink exchanges a valid code for a 30 day session token,
// creating the user profile on first sign-in.
func VerifyMagicLink(ctx *gin.Context) {
	type VerifyBody struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}

	var body VerifyBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var loginCode models.LoginCode
	result := initializers.DB.
		Where("email = ? AND used = ? AND expires_at > ?", body.Email, false, time.Now()).
		Order("created_at desc").
		First(&loginCode)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidMagicLink)
		return
	}

	if err := compareLoginCodes(loginCode.CodeHash, body.Code); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidMagicLink)
		return
	}

	if result := initializers.DB.Model(&loginCode).Update("used", true); result.Error != nil {
		log.Println("Error marking login code used:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	profile, err := findOrCreateProfile(body.Email)
	if err != nil {
		log.Println("Profile lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	tokenString, err := generateSessionJWT(profile)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToIssueToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"token":   tokenString,
		"user": gin.H{
			"authUserId": profile.AuthUserID,
			"email":      profile.Email,
		},
	})
}

func findOrCreateProfile(email string) (models.UserProfile, error) {
	var profile models.UserProfile
	err := initializers.DB.Where("email = ?", email).First(&profile).Error
	if err == nil {
		initializers.DB.Model(&profile).Update("last_login", time.Now())
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return profile, err
	}

	authUserId, err := utils.GenerateCode(12)
	if err != nil {
		return profile, err
	}
	profile = models.UserProfile{
		AuthUserID: authUserId,
		Email:      email,
		IsActive:   true,
		LastLogin:  time.Now(),
	}
	if result := initializers.DB.Create(&profile); result.Error != nil {
		return profile, result.Error
	}
	return profile, nil
}
