package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{PaymentPending, PaymentProcessing, true},
		{PaymentPending, PaymentCompleted, true},
		{PaymentPending, PaymentFailed, true},
		{PaymentPending, PaymentCancelled, true},
		{PaymentProcessing, PaymentCompleted, true},
		{PaymentProcessing, PaymentFailed, true},
		{PaymentProcessing, PaymentCancelled, true},
		{PaymentProcessing, PaymentPending, false},
		{PaymentCompleted, PaymentFailed, false},
		{PaymentCompleted, PaymentPending, false},
		{PaymentFailed, PaymentCompleted, false},
		{PaymentCancelled, PaymentProcessing, false},
		{PaymentPending, PaymentPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionToRejectsIllegalMoves(t *testing.T) {
	payment := Payment{Status: PaymentPending}

	assert.NoError(t, payment.TransitionTo(PaymentProcessing))
	assert.Equal(t, PaymentProcessing, payment.Status)

	assert.NoError(t, payment.TransitionTo(PaymentCompleted))

	// Terminal, so a replayed event cannot move it again.
	err := payment.TransitionTo(PaymentFailed)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, PaymentCompleted, payment.Status)
}

func TestPaymentStatusValid(t *testing.T) {
	for _, s := range []PaymentStatus{PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentCancelled} {
		assert.True(t, s.Valid())
	}
	assert.False(t, PaymentStatus("refunded").Valid())
	assert.False(t, PaymentStatus("").Valid())
}

func TestPaymentStatusTerminal(t *testing.T) {
	assert.False(t, PaymentPending.Terminal())
	assert.False(t, PaymentProcessing.Terminal())
	assert.True(t, PaymentCompleted.Terminal())
	assert.True(t, PaymentFailed.Terminal())
	assert.True(t, PaymentCancelled.Terminal())
}

func TestGenerateOrderID(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD\d{10}$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := GenerateOrderID()
		assert.Regexp(t, pattern, id)
		seen[id] = true
	}
	// 10^4 possible suffixes per day makes 50 draws colliding across the
	// board vanishingly unlikely.
	assert.Greater(t, len(seen), 1)
}
