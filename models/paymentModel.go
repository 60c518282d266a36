package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodCOD    PaymentMethod = "cash_on_delivery"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
)

// paymentTransitions is the full set of legal status moves. Completed,
// failed and cancelled are terminal: nothing transitions out of them.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:    {PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentCancelled},
	PaymentProcessing: {PaymentCompleted, PaymentFailed, PaymentCancelled},
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) Terminal() bool {
	return s == PaymentCompleted || s == PaymentFailed || s == PaymentCancelled
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var ErrIllegalTransition = fmt.Errorf("illegal payment status transition")

// OrderItem is a by-value snapshot of a cart line at checkout time. It is
// stored as JSON on the payment record and never updated afterwards, so the
// order stays stable even if the live cart or catalog changes.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type CustomerDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Payment struct {
	gorm.Model
	OrderID               string                         `json:"orderId" gorm:"uniqueIndex;size:16"`
	UserID                string                         `json:"userId" gorm:"index:idx_payments_user_created,priority:1;size:64"`
	Amount                float64                        `json:"amount"`
	Currency              string                         `json:"currency" gorm:"size:8;default:inr"`
	PaymentMethod         PaymentMethod                  `json:"paymentMethod" gorm:"size:32"`
	Status                PaymentStatus                  `json:"status" gorm:"size:16;default:pending"`
	StripeSessionID       string                         `json:"stripeSessionId,omitempty" gorm:"index;size:128"`
	StripePaymentIntentID string                         `json:"stripePaymentIntentId,omitempty" gorm:"index;size:128"`
	StripeClientSecret    string                         `json:"-" gorm:"size:256"`
	Items                 datatypes.JSONSlice[OrderItem] `json:"items"`
	ShippingAddress       ShippingAddress                `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`
	CustomerDetails       CustomerDetails                `json:"customerDetails" gorm:"embedded;embeddedPrefix:customer_"`
	Metadata              datatypes.JSONMap              `json:"metadata"`
}

// TransitionTo moves the payment to the next status, rejecting anything not
// in the transition table. Callers treat ErrIllegalTransition on a terminal
// record as a replay and no-op.
func (p *Payment) TransitionTo(next PaymentStatus) error {
	if !p.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, p.Status, next)
	}
	p.Status = next
	return nil
}

// GenerateOrderID builds a human readable order reference: ORD + YYMMDD +
// four random digits, e.g. ORD2608290042.
func GenerateOrderID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("ORD%s%04d", time.Now().Format("060102"), suffix)
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.OrderID == "" {
		p.OrderID = GenerateOrderID()
	}
	if p.Status == "" {
		p.Status = PaymentPending
	}
	if p.Currency == "" {
		p.Currency = "inr"
	}
	return nil
}
