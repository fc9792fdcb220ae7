package domain_test

import (
	"testing"
	"time"

	"github.com/MikeRez0/yppaymentgate/internal/core/domain"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
)

func created(paymentID, orderID uuid.UUID) domain.PaymentCreatedEvent {
	amount := decimal.MustNew(100, 0)
	return domain.PaymentCreatedEvent{
		Payment:   paymentID,
		OrderID:   orderID,
		Amount:    amount,
		CreatedAt: time.Now(),
	}
}

func TestFoldPayment(t *testing.T) {
	paymentID := uuid.New()
	orderID := uuid.New()
	now := time.Now()

	tests := []struct {
		name     string
		events   []domain.PaymentEvent
		expState domain.PaymentState
		expError error
	}{
		{
			name:     "no events",
			events:   nil,
			expError: domain.ErrUnknownPayment,
		},
		{
			name:     "created only",
			events:   []domain.PaymentEvent{created(paymentID, orderID)},
			expState: domain.PaymentStateCreated,
		},
		{
			name: "submitted",
			events: []domain.PaymentEvent{
				created(paymentID, orderID),
				domain.PaymentSubmittedEvent{Payment: paymentID, SubmittedAt: now},
			},
			expState: domain.PaymentStateSubmitted,
		},
		{
			name: "succeeded",
			events: []domain.PaymentEvent{
				created(paymentID, orderID),
				domain.PaymentSubmittedEvent{Payment: paymentID, SubmittedAt: now},
				domain.PaymentSucceededEvent{Payment: paymentID, CompletedAt: now},
			},
			expState: domain.PaymentStateSucceeded,
		},
		{
			name: "failed",
			events: []domain.PaymentEvent{
				created(paymentID, orderID),
				domain.PaymentSubmittedEvent{Payment: paymentID, SubmittedAt: now},
				domain.PaymentFailedEvent{Payment: paymentID, Reason: "boom", CompletedAt: now},
			},
			expState: domain.PaymentStateFailed,
		},
		{
			name: "first terminal event wins",
			events: []domain.PaymentEvent{
				created(paymentID, orderID),
				domain.PaymentSubmittedEvent{Payment: paymentID, SubmittedAt: now},
				domain.PaymentTimedOutEvent{Payment: paymentID, Deadline: now, CompletedAt: now},
				domain.PaymentSucceededEvent{Payment: paymentID, CompletedAt: now},
			},
			expState: domain.PaymentStateTimedOut,
		},
		{
			name: "terminal state never moves back",
			events: []domain.PaymentEvent{
				created(paymentID, orderID),
				domain.PaymentSucceededEvent{Payment: paymentID, CompletedAt: now},
				domain.PaymentSubmittedEvent{Payment: paymentID, SubmittedAt: now},
			},
			expState: domain.PaymentStateSucceeded,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			payment, err := domain.FoldPayment(test.events)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, test.expState, payment.State)
			assert.Equal(t, paymentID, payment.ID)
			assert.Equal(t, orderID, payment.OrderID)
		})
	}
}

func TestPaymentState_Terminal(t *testing.T) {
	assert.False(t, domain.PaymentStateCreated.Terminal())
	assert.False(t, domain.PaymentStateSubmitted.Terminal())
	assert.True(t, domain.PaymentStateSucceeded.Terminal())
	assert.True(t, domain.PaymentStateFailed.Terminal())
	assert.True(t, domain.PaymentStateTimedOut.Terminal())
}
