package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/furnishly/furnishly-api/initializers"
	"github.com/furnishly/furnishly-api/models"
	"github.com/furnishly/furnishly-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// addressValidator is shared across checkout and settings. The cache object
// is explicit so tests can swap it and control its clock.
var addressValidator = utils.NewAddressValidator(utils.NewValidationCache(24 * time.Hour))

func newStripeClient() (*utils.StripeClient, error) {
	secretKey := os.Getenv("STRIPE_SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("stripe configuration missing")
	}
	return utils.NewStripeClient(secretKey), nil
}

type paymentItemInput struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Image     string  `json:"image"`
}

type addressInput struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type customerInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
}

type checkoutInput struct {
	Currency        string             `json:"currency"`
	Items           []paymentItemInput `json:"items"`
	ShippingAddress addressInput       `json:"shippingAddress"`
	CustomerDetails customerInput      `json:"customerDetails"`
	DeliveryOption  string             `json:"deliveryOption"`
}

// validateCheckoutInput applies the preconditions shared by both payment
// methods: non-empty items, a positive server-computed subtotal and a
// shipping address that passes the whitelist validator.
func validateCheckoutInput(ctx *gin.Context, input *checkoutInput) (subtotal float64, ok bool) {
	if len(input.Items) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "No items provided")
		return 0, false
	}

	for _, item := range input.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	if subtotal <= 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Amount must be greater than 0")
		return 0, false
	}

	validation := addressValidator.Validate(utils.Address{
		Street:  input.ShippingAddress.Street,
		City:    input.ShippingAddress.City,
		State:   input.ShippingAddress.State,
		ZipCode: input.ShippingAddress.ZipCode,
		Country: input.ShippingAddress.Country,
	})
	if !validation.IsValid {
		sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
			"success":     false,
			"message":     "Invalid shipping address",
			"errors":      validation.Errors,
			"suggestions": validation.Suggestions,
		})
		return 0, false
	}

	// Use the canonical form for everything downstream.
	std := validation.StandardizedAddress
	input.ShippingAddress = addressInput{
		Street:  std.Street,
		City:    std.City,
		State:   std.State,
		ZipCode: std.ZipCode,
		Country: std.Country,
	}

	if input.Currency == "" {
		input.Currency = "inr"
	}
	if input.DeliveryOption == "" {
		input.DeliveryOption = string(utils.DeliveryRegular)
	}
	return subtotal, true
}

func snapshotItems(items []paymentItemInput) []models.OrderItem {
	snapshot := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		snapshot = append(snapshot, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}
	return snapshot
}

// CreatePaymentIntent opens a hosted Stripe checkout session for the cart
// and records the attempt as a pending payment. The total is always computed
// server side; a client-supplied amount is never trusted.
func CreatePaymentIntent(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	var input checkoutInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	subtotal, ok := validateCheckoutInput(ctx, &input)
	if !ok {
		return
	}

	shippingCost := utils.ShippingCost(utils.DeliveryOption(input.DeliveryOption), subtotal)
	total := subtotal + shippingCost

	client, err := newStripeClient()
	if err != nil {
		log.Println("Stripe configuration error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Payment service not configured")
		return
	}

	lineItems := make([]utils.CheckoutLineItem, 0, len(input.Items)+1)
	for _, item := range input.Items {
		lineItems = append(lineItems, utils.CheckoutLineItem{
			Name:       item.Name,
			Image:      item.Image,
			UnitAmount: utils.FormatAmountForStripe(item.Price),
			Quantity:   item.Quantity,
		})
	}
	if shippingCost > 0 {
		deliveryName := "Regular Delivery"
		if input.DeliveryOption == string(utils.DeliveryExpress) {
			deliveryName = "Express Delivery"
		}
		lineItems = append(lineItems, utils.CheckoutLineItem{
			Name:       deliveryName,
			UnitAmount: utils.FormatAmountForStripe(shippingCost),
			Quantity:   1,
		})
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	session, err := client.CreateCheckoutSession(utils.CheckoutSessionParams{
		Currency:      input.Currency,
		LineItems:     lineItems,
		SuccessURL:    frontendURL + "/orders?success=true&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     frontendURL + "/checkout?canceled=true",
		CustomerEmail: input.CustomerDetails.Email,
		Metadata: map[string]string{
			"userId":         authUserId,
			"orderType":      "stripe",
			"deliveryOption": input.DeliveryOption,
		},
		AllowedCountries: []string{"IN"},
	})
	if err != nil {
		respondWithStripeError(ctx, err)
		return
	}

	// Session id and intent id are written together at creation time. The
	// webhook still falls back to the session id for records written before
	// Stripe attached an intent id.
	payment := models.Payment{
		OrderID:               models.GenerateOrderID(),
		UserID:                authUserId,
		Amount:                total,
		Currency:              input.Currency,
		PaymentMethod:         models.PaymentMethodStripe,
		Status:                models.PaymentPending,
		StripeSessionID:       session.ID,
		StripePaymentIntentID: session.PaymentIntent,
		StripeClientSecret:    session.ClientSecret,
		Items:                 snapshotItems(input.Items),
		ShippingAddress: models.ShippingAddress{
			Street:  input.ShippingAddress.Street,
			City:    input.ShippingAddress.City,
			State:   input.ShippingAddress.State,
			ZipCode: input.ShippingAddress.ZipCode,
			Country: input.ShippingAddress.Country,
		},
		CustomerDetails: models.CustomerDetails{
			FirstName: input.CustomerDetails.FirstName,
			LastName:  input.CustomerDetails.LastName,
			Email:     input.CustomerDetails.Email,
			Phone:     input.CustomerDetails.Phone,
		},
		Metadata: map[string]any{
			"sessionId":      session.ID,
			"orderType":      "stripe",
			"deliveryOption": input.DeliveryOption,
			"shippingCost":   shippingCost,
			"subtotal":       subtotal,
		},
	}
	if result := initializers.DB.Create(&payment); result.Error != nil {
		log.Println("Payment record creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create payment record")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":         true,
		"sessionId":       session.ID,
		"orderId":         payment.OrderID,
		"paymentIntentId": session.PaymentIntent,
	})
}

// respondWithStripeError maps provider error categories onto responses the
// UI can discriminate on. The category is never collapsed into a generic
// message.
func respondWithStripeError(ctx *gin.Context, err error) {
	var stripeErr *utils.StripeError
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case utils.StripeErrCard:
			sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
				"success": false, "message": "Card error", "error": stripeErr.Message, "errorType": stripeErr.Type,
			})
		case utils.StripeErrInvalidRequest:
			sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
				"success": false, "message": "Invalid request", "error": stripeErr.Message, "errorType": stripeErr.Type,
			})
		default:
			sendJSONResponse(ctx, http.StatusInternalServerError, gin.H{
				"success": false, "message": "Payment service error", "error": stripeErr.Message, "errorType": stripeErr.Type,
			})
		}
		return
	}

	log.Println("Stripe request error:", err)
	sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create payment intent")
}

// CreateCashOnDeliveryOrder finalizes a COD order immediately. There is no
// asynchronous confirmation step, so the client clears its own cart on the
// success response.
func CreateCashOnDeliveryOrder(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	var input checkoutInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	subtotal, ok := validateCheckoutInput(ctx, &input)
	if !ok {
		return
	}

	shippingCost := utils.ShippingCost(utils.DeliveryOption(input.DeliveryOption), subtotal)
	total := subtotal + shippingCost

	payment := models.Payment{
		OrderID:       models.GenerateOrderID(),
		UserID:        authUserId,
		Amount:        total,
		Currency:      input.Currency,
		PaymentMethod: models.PaymentMethodCOD,
		Status:        models.PaymentPending,
		Items:         snapshotItems(input.Items),
		ShippingAddress: models.ShippingAddress{
			Street:  input.ShippingAddress.Street,
			City:    input.ShippingAddress.City,
			State:   input.ShippingAddress.State,
			ZipCode: input.ShippingAddress.ZipCode,
			Country: input.ShippingAddress.Country,
		},
		CustomerDetails: models.CustomerDetails{
			FirstName: input.CustomerDetails.FirstName,
			LastName:  input.CustomerDetails.LastName,
			Email:     input.CustomerDetails.Email,
			Phone:     input.CustomerDetails.Phone,
		},
		Metadata: map[string]any{
			"deliveryOption": input.DeliveryOption,
			"shippingCost":   shippingCost,
			"subtotal":       subtotal,
		},
	}
	if result := initializers.DB.Create(&payment); result.Error != nil {
		log.Println("COD order creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create cash on delivery order")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":        true,
		"orderId":        payment.OrderID,
		"amount":         total,
		"shippingCost":   shippingCost,
		"deliveryOption": input.DeliveryOption,
	})
}

// ConfirmPayment marks a payment completed after the client returns from the
// hosted page. Confirming an already completed payment is a no-op.
func ConfirmPayment(ctx *gin.Context) {
	type ConfirmBody struct {
		OrderID         string `json:"orderId" binding:"required"`
		PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	}

	var body ConfirmBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	// Scoped to the caller: order ids are guessable, ownership is not.
	var payment models.Payment
	result := initializers.DB.
		Where("order_id = ? AND stripe_payment_intent_id = ? AND user_id = ?",
			body.OrderID, body.PaymentIntentID, ctx.GetString("authUserId")).
		First(&payment)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Payment not found")
		return
	}

	if payment.Status != models.PaymentCompleted {
		if err := payment.TransitionTo(models.PaymentCompleted); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Payment cannot be confirmed from its current status")
			return
		}
		if result := initializers.DB.Save(&payment); result.Error != nil {
			log.Println("Payment confirmation error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to confirm payment")
			return
		}
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Payment confirmed successfully",
		"orderId": payment.OrderID,
	})
}

// UpdatePaymentStatus moves a payment through its lifecycle. Illegal
// transitions are rejected, which is what keeps replayed updates harmless.
func UpdatePaymentStatus(ctx *gin.Context) {
	type UpdateBody struct {
		OrderID string `json:"orderId" binding:"required"`
		Status  string `json:"status" binding:"required"`
	}

	var body UpdateBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Missing orderId or status")
		return
	}

	next := models.PaymentStatus(body.Status)
	if !next.Valid() {
		sendErrorResponse(ctx, http.StatusBadRequest, "Unknown payment status: "+body.Status)
		return
	}

	var payment models.Payment
	result := initializers.DB.
		Where("order_id = ? AND user_id = ?", body.OrderID, ctx.GetString("authUserId")).
		First(&payment)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Payment not found")
		return
	}

	if err := payment.TransitionTo(next); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, fmt.Sprintf("Cannot move payment from %s to %s", payment.Status, next))
		return
	}
	if result := initializers.DB.Save(&payment); result.Error != nil {
		log.Println("Payment status update error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update payment status")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Payment status updated successfully",
		"orderId": payment.OrderID,
		"status":  payment.Status,
	})
}

func GetPendingPayments(ctx *gin.Context) {
	var payments []models.Payment
	result := initializers.DB.
		Where("status = ?", models.PaymentPending).
		Order("created_at desc").
		Find(&payments)
	if result.Error != nil {
		log.Println("Pending payments query error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch pending payments")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":  true,
		"payments": payments,
		"count":    len(payments),
	})
}

func GetPaymentHistory(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var payments []models.Payment
	result := initializers.DB.
		Where("user_id = ?", authUserId).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&payments)
	if result.Error != nil {
		log.Println("Payment history query error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to get payment history")
		return
	}

	var count int64
	initializers.DB.Model(&models.Payment{}).Where("user_id = ?", authUserId).Count(&count)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":     true,
		"payments":    payments,
		"totalPages":  int(math.Ceil(float64(count) / float64(limit))),
		"currentPage": page,
		"total":       count,
	})
}

func GetPaymentByOrderId(ctx *gin.Context) {
	authUserId := ctx.GetString("authUserId")
	orderId := ctx.Param("orderId")

	var payment models.Payment
	result := initializers.DB.
		Where("order_id = ? AND user_id = ?", orderId, authUserId).
		First(&payment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Payment not found")
		} else {
			log.Println("Payment query error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to get payment details")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"payment": payment,
	})
}

// HandleStripeWebhook reconciles local payment status with Stripe's
// authoritative events. The raw body is verified against the signature
// header before anything is trusted. Processing failures after verification
// are logged and acknowledged so the provider does not retry forever.
func HandleStripeWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to read request body")
		return
	}

	event, err := utils.ParseWebhookEvent(
		payload,
		ctx.GetHeader("Stripe-Signature"),
		os.Getenv("STRIPE_WEBHOOK_SECRET"),
		time.Now,
	)
	if err != nil {
		log.Println("Webhook signature verification failed:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Webhook signature verification failed")
		return
	}

	switch event.Type {
	case utils.EventCheckoutSessionCompleted:
		var session utils.CheckoutSessionObject
		if err := json.Unmarshal(event.Data.Object, &session); err != nil {
			log.Println("Failed to decode checkout session payload:", err)
			break
		}
		handleCheckoutSessionCompleted(session)

	case utils.EventPaymentIntentSucceeded:
		var intent utils.PaymentIntentObject
		if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
			log.Println("Failed to decode payment intent payload:", err)
			break
		}
		handlePaymentIntentSucceeded(intent.ID)

	case utils.EventPaymentIntentFailed:
		var intent utils.PaymentIntentObject
		if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
			log.Println("Failed to decode payment intent payload:", err)
			break
		}
		handlePaymentIntentFailed(intent.ID)

	default:
		log.Println("Unhandled webhook event type:", event.Type)
	}

	// Always acknowledge once the signature checked out. An async callback
	// has no caller to answer to, and a non-2xx here only causes retry
	// storms for failures retries cannot fix.
	ctx.JSON(http.StatusOK, gin.H{"received": true})
}

func handleCheckoutSessionCompleted(session utils.CheckoutSessionObject) {
	payment, err := findPaymentForSession(session)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("No payment record found for session:", session.ID)
		} else {
			log.Println("Payment lookup error:", err)
		}
		return
	}

	var carrierAddress *utils.StripeShippingAddress
	if session.Shipping != nil {
		carrierAddress = session.Shipping.Address
	}
	markPaymentCompleted(payment, session.PaymentIntent, carrierAddress)
}

// findPaymentForSession looks the record up by payment intent id first, then
// by the stored session id. The fallback covers sessions persisted before
// Stripe attached an intent id.
func findPaymentForSession(session utils.CheckoutSessionObject) (*models.Payment, error) {
	var payment models.Payment
	if session.PaymentIntent != "" {
		err := initializers.DB.
			Where("stripe_payment_intent_id = ?", session.PaymentIntent).
			First(&payment).Error
		if err == nil {
			return &payment, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	err := initializers.DB.
		Where("stripe_session_id = ?", session.ID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func handlePaymentIntentSucceeded(intentID string) {
	var payment models.Payment
	err := initializers.DB.Where("stripe_payment_intent_id = ?", intentID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("No payment record found for payment intent:", intentID)
		} else {
			log.Println("Payment lookup error:", err)
		}
		return
	}
	markPaymentCompleted(&payment, intentID, nil)
}

func handlePaymentIntentFailed(intentID string) {
	var payment models.Payment
	err := initializers.DB.Where("stripe_payment_intent_id = ?", intentID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("No payment record found for payment intent:", intentID)
		} else {
			log.Println("Payment lookup error:", err)
		}
		return
	}

	if err := payment.TransitionTo(models.PaymentFailed); err != nil {
		// Already terminal: a redelivered or out-of-order event, nothing to do.
		log.Printf("Ignoring failure event for order %s in status %s", payment.OrderID, payment.Status)
		return
	}
	if err := initializers.DB.Save(&payment).Error; err != nil {
		log.Println("Error updating payment status:", err)
		return
	}
	log.Println("Payment marked failed for order:", payment.OrderID)
}

// markPaymentCompleted performs the single pending -> completed transition:
// it backfills the intent id when the record was found via session fallback,
// overwrites the shipping address with the carrier-verified one when
// present, and clears the user's live cart. A record already in a terminal
// state is left untouched, so redelivered events clear the cart at most
// once.
func markPaymentCompleted(payment *models.Payment, intentID string, carrierAddress *utils.StripeShippingAddress) {
	if err := payment.TransitionTo(models.PaymentCompleted); err != nil {
		log.Printf("Ignoring success event for order %s in status %s", payment.OrderID, payment.Status)
		return
	}

	if intentID != "" && payment.StripePaymentIntentID == "" {
		payment.StripePaymentIntentID = intentID
	}

	if carrierAddress != nil {
		if carrierAddress.Line1 != "" {
			payment.ShippingAddress.Street = carrierAddress.Line1
		}
		if carrierAddress.City != "" {
			payment.ShippingAddress.City = carrierAddress.City
		}
		if carrierAddress.State != "" {
			payment.ShippingAddress.State = carrierAddress.State
		}
		if carrierAddress.PostalCode != "" {
			payment.ShippingAddress.ZipCode = carrierAddress.PostalCode
		}
		if carrierAddress.Country != "" {
			payment.ShippingAddress.Country = carrierAddress.Country
		}
	}

	if err := initializers.DB.Save(payment).Error; err != nil {
		log.Println("Error updating payment status:", err)
		return
	}
	log.Println("Payment completed for order:", payment.OrderID)

	clearCartForUser(payment.UserID)
}

// clearCartForUser empties the live cart after a confirmed payment. The
// item snapshot on the payment record is untouched.
func clearCartForUser(authUserId string) {
	var cart models.Cart
	err := initializers.DB.Where("auth_user_id = ?", authUserId).First(&cart).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("Error loading cart for clear:", err)
		}
		return
	}

	if err := initializers.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		log.Println("Error clearing cart:", err)
		return
	}
	log.Println("Cart cleared for user:", authUserId)
}
