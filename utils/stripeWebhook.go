package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Webhook event types this API acts on. Everything else is acknowledged and
// ignored.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventPaymentIntentSucceeded   = "payment_intent.succeeded"
	EventPaymentIntentFailed      = "payment_intent.payment_failed"
)

// signatureTolerance bounds how old a signed timestamp may be before the
// event is treated as a replay.
const signatureTolerance = 5 * time.Minute

var ErrInvalidSignature = errors.New("webhook signature verification failed")

type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type StripeShippingAddress struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CheckoutSessionObject is the payload of a checkout.session.completed
// event. Shipping carries the address Stripe collected on the hosted page,
// which may be more precise than what the customer typed at checkout.
type CheckoutSessionObject struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
	Shipping      *struct {
		Address *StripeShippingAddress `json:"address"`
	} `json:"shipping"`
}

type PaymentIntentObject struct {
	ID string `json:"id"`
}

// VerifyWebhookSignature checks the Stripe-Signature header against the raw
// request body. The header carries a unix timestamp and one or more v1 HMAC
// signatures over "<timestamp>.<payload>".
func VerifyWebhookSignature(payload []byte, header, secret string, now func() time.Time) error {
	if header == "" || secret == "" {
		return ErrInvalidSignature
	}
	if now == nil {
		now = time.Now
	}

	var timestamp int64
	var signatures [][]byte
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return ErrInvalidSignature
	}

	age := now().Sub(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// ParseWebhookEvent verifies the signature and decodes the event envelope.
// The payload is never trusted before the signature check passes.
func ParseWebhookEvent(payload []byte, header, secret string, now func() time.Time) (*WebhookEvent, error) {
	if err := VerifyWebhookSignature(payload, header, secret, now); err != nil {
		return nil, err
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook event: %w", err)
	}
	return &event, nil
}

// SignWebhookPayload builds a Stripe-Signature header value for a payload.
// Used by tests to produce deliverable events.
func SignWebhookPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}
