package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStripeClient(serverURL string) *StripeClient {
	return &StripeClient{http: resty.New().SetBaseURL(serverURL)}
}

func TestCreateCheckoutSession(t *testing.T) {
	var capturedForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		capturedForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_123","payment_intent":"pi_test_456","client_secret":"cs_secret","url":"https://checkout.stripe.com/pay/cs_test_123"}`))
	}))
	defer server.Close()

	client := newTestStripeClient(server.URL)
	session, err := client.CreateCheckoutSession(CheckoutSessionParams{
		Currency: "inr",
		LineItems: []CheckoutLineItem{
			{Name: "Oak Coffee Table", Image: "https://cdn.example.com/oak.jpg", UnitAmount: 250000, Quantity: 1},
			{Name: "Regular Delivery", UnitAmount: 9900, Quantity: 1},
		},
		SuccessURL:       "https://furnishly.online/success",
		CancelURL:        "https://furnishly.online/cancel",
		CustomerEmail:    "buyer@example.com",
		Metadata:         map[string]string{"orderId": "ORD2506011234"},
		AllowedCountries: []string{"IN"},
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)
	assert.Equal(t, "pi_test_456", session.PaymentIntent)

	assert.Equal(t, "payment", capturedForm.Get("mode"))
	assert.Equal(t, "inr", capturedForm.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "Oak Coffee Table", capturedForm.Get("line_items[0][price_data][product_data][name]"))
	assert.Equal(t, "250000", capturedForm.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "Regular Delivery", capturedForm.Get("line_items[1][price_data][product_data][name]"))
	assert.Equal(t, "buyer@example.com", capturedForm.Get("customer_email"))
	assert.Equal(t, "ORD2506011234", capturedForm.Get("metadata[orderId]"))
	assert.Equal(t, "IN", capturedForm.Get("shipping_address_collection[allowed_countries][0]"))
}

func TestCreateCheckoutSessionCardError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	}))
	defer server.Close()

	client := newTestStripeClient(server.URL)
	_, err := client.CreateCheckoutSession(CheckoutSessionParams{Currency: "inr"})
	require.Error(t, err)

	var stripeErr *StripeError
	require.True(t, errors.As(err, &stripeErr))
	assert.Equal(t, StripeErrCard, stripeErr.Type)
	assert.Equal(t, "card_declined", stripeErr.Code)
}

func TestCreateCheckoutSessionUnparseableError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := newTestStripeClient(server.URL)
	_, err := client.CreateCheckoutSession(CheckoutSessionParams{Currency: "inr"})
	require.Error(t, err)

	var stripeErr *StripeError
	require.True(t, errors.As(err, &stripeErr))
	assert.Equal(t, StripeErrAPI, stripeErr.Type)
}

func TestFormatAmountConversions(t *testing.T) {
	assert.Equal(t, int64(259900), FormatAmountForStripe(2599))
	assert.Equal(t, int64(9999), FormatAmountForStripe(99.99))
	assert.Equal(t, int64(10), FormatAmountForStripe(0.1))
	assert.Equal(t, 2599.0, FormatAmountFromStripe(259900))
	assert.Equal(t, 0.5, FormatAmountFromStripe(50))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	secret := "whsec_test"
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	now := func() time.Time { return at }

	header := SignWebhookPayload(payload, secret, at)
	assert.NoError(t, VerifyWebhookSignature(payload, header, secret, now))

	// Tampered payload.
	assert.ErrorIs(t, VerifyWebhookSignature([]byte(`{"id":"evt_2"}`), header, secret, now), ErrInvalidSignature)

	// Wrong secret.
	assert.ErrorIs(t, VerifyWebhookSignature(payload, header, "whsec_other", now), ErrInvalidSignature)

	// Missing header or secret.
	assert.ErrorIs(t, VerifyWebhookSignature(payload, "", secret, now), ErrInvalidSignature)
	assert.ErrorIs(t, VerifyWebhookSignature(payload, header, "", now), ErrInvalidSignature)
}

func TestVerifyWebhookSignatureStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	secret := "whsec_test"
	signedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	header := SignWebhookPayload(payload, secret, signedAt)

	within := func() time.Time { return signedAt.Add(4 * time.Minute) }
	assert.NoError(t, VerifyWebhookSignature(payload, header, secret, within))

	stale := func() time.Time { return signedAt.Add(6 * time.Minute) }
	assert.ErrorIs(t, VerifyWebhookSignature(payload, header, secret, stale), ErrInvalidSignature)
}

func TestParseWebhookEvent(t *testing.T) {
	payload := []byte(`{"id":"evt_9","type":"checkout.session.completed","data":{"object":{"id":"cs_1","payment_intent":"pi_1"}}}`)
	secret := "whsec_test"
	at := time.Now()
	header := SignWebhookPayload(payload, secret, at)

	event, err := ParseWebhookEvent(payload, header, secret, nil)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutSessionCompleted, event.Type)

	var object CheckoutSessionObject
	require.NoError(t, json.Unmarshal(event.Data.Object, &object))
	assert.Equal(t, "cs_1", object.ID)
	assert.Equal(t, "pi_1", object.PaymentIntent)

	_, err = ParseWebhookEvent(payload, "t=1,v1=00", secret, nil)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
