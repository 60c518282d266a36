package utils

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultStripeAPIBaseURL = "https://api.stripe.com/v1"

// StripeErrorType mirrors the error categories Stripe reports. The category
// is preserved all the way to the API response so the client can tell a
// declined card from a misconfigured request.
type StripeErrorType string

const (
	StripeErrCard           StripeErrorType = "card_error"
	StripeErrInvalidRequest StripeErrorType = "invalid_request_error"
	StripeErrAPI            StripeErrorType = "api_error"
)

type StripeError struct {
	Type    StripeErrorType `json:"type"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

func (e *StripeError) Error() string {
	return fmt.Sprintf("stripe %s: %s", e.Type, e.Message)
}

type stripeErrorResponse struct {
	Error StripeError `json:"error"`
}

type CheckoutLineItem struct {
	Name       string
	Image      string
	UnitAmount int64
	Quantity   int
}

type CheckoutSessionParams struct {
	Currency         string
	LineItems        []CheckoutLineItem
	SuccessURL       string
	CancelURL        string
	CustomerEmail    string
	Metadata         map[string]string
	AllowedCountries []string
}

// CheckoutSession is the subset of Stripe's session object this API uses.
// Both the session id and the payment intent id are returned by the create
// call and stored together on the payment record.
type CheckoutSession struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
	ClientSecret  string `json:"client_secret"`
	URL           string `json:"url"`
}

type StripeClient struct {
	http *resty.Client
}

// NewStripeClient builds the API client. STRIPE_API_BASE_URL overrides the
// endpoint so handler tests can point it at a local stub.
func NewStripeClient(secretKey string) *StripeClient {
	baseURL := os.Getenv("STRIPE_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultStripeAPIBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetBasicAuth(secretKey, "")
	return &StripeClient{http: client}
}

// CreateCheckoutSession opens a hosted payment page for the given line
// items. Stripe's API is form encoded with bracketed array keys.
func (c *StripeClient) CreateCheckoutSession(params CheckoutSessionParams) (*CheckoutSession, error) {
	form := map[string]string{
		"mode":                    "payment",
		"payment_method_types[0]": "card",
		"success_url":             params.SuccessURL,
		"cancel_url":              params.CancelURL,
	}

	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form[prefix+"[price_data][currency]"] = params.Currency
		form[prefix+"[price_data][product_data][name]"] = item.Name
		if item.Image != "" {
			form[prefix+"[price_data][product_data][images][0]"] = item.Image
		}
		form[prefix+"[price_data][unit_amount]"] = strconv.FormatInt(item.UnitAmount, 10)
		form[prefix+"[quantity]"] = strconv.Itoa(item.Quantity)
	}

	if params.CustomerEmail != "" {
		form["customer_email"] = params.CustomerEmail
	}
	for key, value := range params.Metadata {
		form["metadata["+key+"]"] = value
	}
	for i, country := range params.AllowedCountries {
		form[fmt.Sprintf("shipping_address_collection[allowed_countries][%d]", i)] = country
	}

	var session CheckoutSession
	var apiError stripeErrorResponse
	resp, err := c.http.R().
		SetFormData(form).
		SetResult(&session).
		SetError(&apiError).
		Post("/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to reach stripe: %w", err)
	}

	if resp.IsError() {
		if apiError.Error.Message != "" {
			return nil, &apiError.Error
		}
		return nil, &StripeError{
			Type:    StripeErrAPI,
			Message: fmt.Sprintf("unexpected response (%d): %s", resp.StatusCode(), resp.String()),
		}
	}

	if session.ID == "" {
		return nil, &StripeError{Type: StripeErrAPI, Message: "stripe returned an empty session"}
	}
	return &session, nil
}

// FormatAmountForStripe converts a major-unit amount to the smallest
// currency unit (paise for INR, cents for USD).
func FormatAmountForStripe(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FormatAmountFromStripe(amount int64) float64 {
	return float64(amount) / 100
}
