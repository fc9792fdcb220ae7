package eventstore_test

import (
	"sync"
	"testing"
	"time"

	"github.com/MikeRez0/yppaymentgate/internal/adapter/storage/eventstore"
	"github.com/MikeRez0/yppaymentgate/internal/core/domain"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := eventstore.NewMemoryStore()
	paymentID := uuid.New()
	orderID := uuid.New()
	amount := decimal.MustNew(100, 0)

	event, err := store.Create(paymentID, orderID, amount, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, paymentID, event.Payment)

	state, err := store.State(paymentID)
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStateCreated, state)

	err = store.Append(paymentID, domain.PaymentSubmittedEvent{Payment: paymentID, SubmittedAt: time.Now()})
	assert.NoError(t, err)

	err = store.Append(paymentID, domain.PaymentSucceededEvent{Payment: paymentID, CompletedAt: time.Now()})
	assert.NoError(t, err)

	state, err = store.State(paymentID)
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStateSucceeded, state)

	events, err := store.Events(paymentID)
	assert.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestMemoryStore_DuplicateCreate(t *testing.T) {
	store := eventstore.NewMemoryStore()
	paymentID := uuid.New()
	amount := decimal.MustNew(100, 0)

	_, err := store.Create(paymentID, uuid.New(), amount, time.Now())
	assert.NoError(t, err)

	_, err = store.Create(paymentID, uuid.New(), amount, time.Now())
	assert.ErrorIs(t, err, domain.ErrDuplicatePayment)

	// First aggregate untouched.
	state, err := store.State(paymentID)
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStateCreated, state)

	events, err := store.Events(paymentID)
	assert.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestMemoryStore_UnknownAggregate(t *testing.T) {
	store := eventstore.NewMemoryStore()
	paymentID := uuid.New()

	err := store.Append(paymentID, domain.PaymentSubmittedEvent{Payment: paymentID, SubmittedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrUnknownPayment)

	_, err = store.State(paymentID)
	assert.ErrorIs(t, err, domain.ErrUnknownPayment)

	_, err = store.Events(paymentID)
	assert.ErrorIs(t, err, domain.ErrUnknownPayment)
}

func TestMemoryStore_TerminalStateIsFinal(t *testing.T) {
	store := eventstore.NewMemoryStore()
	paymentID := uuid.New()
	amount := decimal.MustNew(100, 0)

	_, err := store.Create(paymentID, uuid.New(), amount, time.Now())
	assert.NoError(t, err)

	err = store.Append(paymentID, domain.PaymentTimedOutEvent{Payment: paymentID, Deadline: time.Now(), CompletedAt: time.Now()})
	assert.NoError(t, err)

	// A late success is recorded as a fact but the outcome stays.
	err = store.Append(paymentID, domain.PaymentSucceededEvent{Payment: paymentID, CompletedAt: time.Now()})
	assert.NoError(t, err)

	state, err := store.State(paymentID)
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStateTimedOut, state)

	events, err := store.Events(paymentID)
	assert.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestMemoryStore_ConcurrentAggregates(t *testing.T) {
	store := eventstore.NewMemoryStore()
	amount := decimal.MustNew(100, 0)

	ids := make([]uuid.UUID, 50)
	for i := range ids {
		ids[i] = uuid.New()
	}

	wg := sync.WaitGroup{}
	for _, id := range ids {
		wg.Add(1)
		go func(paymentID uuid.UUID) {
			defer wg.Done()
			_, err := store.Create(paymentID, uuid.New(), amount, time.Now())
			assert.NoError(t, err)
			err = store.Append(paymentID, domain.PaymentSubmittedEvent{Payment: paymentID, SubmittedAt: time.Now()})
			assert.NoError(t, err)
			err = store.Append(paymentID, domain.PaymentSucceededEvent{Payment: paymentID, CompletedAt: time.Now()})
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		state, err := store.State(id)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStateSucceeded, state)
	}
}
