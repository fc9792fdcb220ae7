package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type PaymentState string

const (
	PaymentStateCreated   PaymentState = "CREATED"
	PaymentStateSubmitted PaymentState = "SUBMITTED"
	PaymentStateSucceeded PaymentState = "SUCCEEDED"
	PaymentStateFailed    PaymentState = "FAILED"
	PaymentStateTimedOut  PaymentState = "TIMED_OUT"
)

// Terminal reports whether the state is final. Events appended after a
// terminal state stay in the log as facts but never change the folded state.
func (s PaymentState) Terminal() bool {
	switch s {
	case PaymentStateSucceeded, PaymentStateFailed, PaymentStateTimedOut:
		return true
	}
	return false
}

// PaymentEvent is one recorded fact in a payment's lifecycle.
type PaymentEvent interface {
	PaymentID() uuid.UUID
	OccurredAt() time.Time
}

type PaymentCreatedEvent struct {
	Payment   uuid.UUID
	OrderID   uuid.UUID
	Amount    decimal.Decimal
	CreatedAt time.Time
}

type PaymentSubmittedEvent struct {
	Payment     uuid.UUID
	SubmittedAt time.Time
}

type PaymentSucceededEvent struct {
	Payment     uuid.UUID
	CompletedAt time.Time
}

type PaymentFailedEvent struct {
	Payment     uuid.UUID
	Reason      string
	CompletedAt time.Time
}

type PaymentTimedOutEvent struct {
	Payment     uuid.UUID
	Deadline    time.Time
	CompletedAt time.Time
}

func (e PaymentCreatedEvent) PaymentID() uuid.UUID   { return e.Payment }
func (e PaymentCreatedEvent) OccurredAt() time.Time  { return e.CreatedAt }
func (e PaymentSubmittedEvent) PaymentID() uuid.UUID  { return e.Payment }
func (e PaymentSubmittedEvent) OccurredAt() time.Time { return e.SubmittedAt }
func (e PaymentSucceededEvent) PaymentID() uuid.UUID  { return e.Payment }
func (e PaymentSucceededEvent) OccurredAt() time.Time { return e.CompletedAt }
func (e PaymentFailedEvent) PaymentID() uuid.UUID     { return e.Payment }
func (e PaymentFailedEvent) OccurredAt() time.Time    { return e.CompletedAt }
func (e PaymentTimedOutEvent) PaymentID() uuid.UUID   { return e.Payment }
func (e PaymentTimedOutEvent) OccurredAt() time.Time  { return e.CompletedAt }

// Payment is the current view of an aggregate, rebuilt from its event log.
type Payment struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Amount    decimal.Decimal
	CreatedAt time.Time
	State     PaymentState
}

// FoldPayment replays events in append order into the current aggregate view.
// The first terminal event wins: later events are kept in the log but do not
// move the state again.
func FoldPayment(events []PaymentEvent) (*Payment, error) {
	if len(events) == 0 {
		return nil, ErrUnknownPayment
	}

	created, ok := events[0].(PaymentCreatedEvent)
	if !ok {
		return nil, ErrUnknownPayment
	}

	p := &Payment{
		ID:        created.Payment,
		OrderID:   created.OrderID,
		Amount:    created.Amount,
		CreatedAt: created.CreatedAt,
		State:     PaymentStateCreated,
	}

	for _, event := range events[1:] {
		if p.State.Terminal() {
			break
		}
		switch event.(type) {
		case PaymentSubmittedEvent:
			p.State = PaymentStateSubmitted
		case PaymentSucceededEvent:
			p.State = PaymentStateSucceeded
		case PaymentFailedEvent:
			p.State = PaymentStateFailed
		case PaymentTimedOutEvent:
			p.State = PaymentStateTimedOut
		}
	}

	return p, nil
}
