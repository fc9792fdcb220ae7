package port

import (
	"context"
	"time"

	"github.com/MikeRez0/yppaymentgate/internal/core/domain"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

//go:generate mockgen -source=payment.go -destination=mock/payment.go -package=mock

// EventStore is the append-only ledger of payment lifecycle events.
type EventStore interface {
	// Create appends the initial event for a new aggregate.
	// Fails with domain.ErrDuplicatePayment if paymentID already has events.
	Create(paymentID uuid.UUID, orderID uuid.UUID,
		amount decimal.Decimal, createdAt time.Time) (domain.PaymentCreatedEvent, error)
	// Append adds a lifecycle event to an existing aggregate.
	// Fails with domain.ErrUnknownPayment if no created event exists.
	Append(paymentID uuid.UUID, event domain.PaymentEvent) error
	// State folds the event sequence into the current lifecycle state.
	State(paymentID uuid.UUID) (domain.PaymentState, error)
	// Events returns a copy of the aggregate's full audit trail.
	Events(paymentID uuid.UUID) ([]domain.PaymentEvent, error)
}

// PaymentClient submits a payment request to the external processor.
// Retry and backoff are the processor client's own business.
type PaymentClient interface {
	SubmitPaymentRequest(ctx context.Context, paymentID uuid.UUID,
		amount decimal.Decimal, createdAt time.Time, deadline time.Time) error
}

// Dispatcher runs submission tasks asynchronously. Submit may block the
// caller when the pool is saturated.
type Dispatcher interface {
	Submit(task func())
}

// Metrics is the observability sink sampled by the core.
type Metrics interface {
	IncIncomingRequests()
	ObservePaymentDuration(d time.Duration)
}
