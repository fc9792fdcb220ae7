package e2etest

import (
	"context"
	"testing"
	"time"

	"github.com/MikeRez0/yppaymentgate/internal/adapter/metrics"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/storage/eventstore"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/storage/memory"
	"github.com/MikeRez0/yppaymentgate/internal/core/dispatch"
	"github.com/MikeRez0/yppaymentgate/internal/core/domain"
	"github.com/MikeRez0/yppaymentgate/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/MikeRez0/yppaymentgate/internal/core/port/mock"
)

// stubPaymentClient stands in for the external processor.
type stubPaymentClient struct {
	delay time.Duration
	err   error
}

func (c *stubPaymentClient) SubmitPaymentRequest(ctx context.Context, paymentID uuid.UUID,
	amount decimal.Decimal, createdAt time.Time, deadline time.Time) error {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return c.err
}

type testEnv struct {
	svc    *service.Service
	repo   *memory.Repository
	events *eventstore.MemoryStore
	pool   *dispatch.Pool
}

func newTestEnv(t *testing.T, workers, queueCapacity int, client *stubPaymentClient) *testEnv {
	repo := memory.NewRepository()
	events := eventstore.NewMemoryStore()
	pool := dispatch.NewPool(workers, queueCapacity, zap.NewNop())

	mtr, err := metrics.New(prometheus.NewRegistry(), pool)
	assert.NoError(t, err)

	tokenService := mock.NewMockTokenService(gomock.NewController(t))

	svc, err := service.NewService(repo, tokenService, events, pool, client, mtr, zap.NewNop())
	assert.NoError(t, err)

	return &testEnv{svc: svc, repo: repo, events: events, pool: pool}
}

func (e *testEnv) createOrder(t *testing.T, price int64) *domain.Order {
	order := &domain.Order{
		UserID: uuid.New(),
		Price:  decimal.MustNew(price, 0),
	}
	order, err := e.svc.CreateOrder(context.Background(), order)
	assert.NoError(t, err)
	return order
}

func waitForState(t *testing.T, events *eventstore.MemoryStore,
	paymentID uuid.UUID, want domain.PaymentState) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		state, err := events.State(paymentID)
		if err == nil && state == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	state, err := events.State(paymentID)
	assert.NoError(t, err)
	assert.Equal(t, want, state)
}

func TestPaymentFlow_Succeeds(t *testing.T) {
	env := newTestEnv(t, 16, 8000, &stubPaymentClient{})
	defer func() { _ = env.pool.Shutdown(context.Background()) }()

	order := env.createOrder(t, 100)
	paymentID := uuid.New()
	deadline := time.Now().Add(5 * time.Second)

	acceptedAt, err := env.svc.PayOrder(context.Background(), order.ID, paymentID, deadline)
	assert.NoError(t, err)
	assert.False(t, acceptedAt.IsZero())

	// The aggregate is observable right away, even before the worker runs.
	state, err := env.events.State(paymentID)
	assert.NoError(t, err)
	assert.Contains(t, []domain.PaymentState{
		domain.PaymentStateCreated,
		domain.PaymentStateSubmitted,
		domain.PaymentStateSucceeded,
	}, state)

	waitForState(t, env.events, paymentID, domain.PaymentStateSucceeded)

	// The order was locked for payment on the way in.
	updated, err := env.svc.GetOrder(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaymentInProgress, updated.Status)
}

func TestPaymentFlow_OrderNotFound(t *testing.T) {
	env := newTestEnv(t, 2, 8, &stubPaymentClient{})
	defer func() { _ = env.pool.Shutdown(context.Background()) }()

	paymentID := uuid.New()
	_, err := env.svc.PayOrder(context.Background(), uuid.New(), paymentID, time.Now().Add(time.Second))
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	// No aggregate was created for the rejected request.
	_, err = env.events.State(paymentID)
	assert.ErrorIs(t, err, domain.ErrUnknownPayment)
}

func TestPaymentFlow_FailureRecorded(t *testing.T) {
	env := newTestEnv(t, 2, 8, &stubPaymentClient{err: domain.ErrSubmissionFailed})
	defer func() { _ = env.pool.Shutdown(context.Background()) }()

	order := env.createOrder(t, 100)
	paymentID := uuid.New()

	_, err := env.svc.PayOrder(context.Background(), order.ID, paymentID, time.Now().Add(5*time.Second))
	assert.NoError(t, err)

	waitForState(t, env.events, paymentID, domain.PaymentStateFailed)
}

func TestPaymentFlow_NoAcceptedPaymentLostUnderLoad(t *testing.T) {
	// Tiny pool, slow processor: submissions outrun the drain rate, so
	// ProcessPayment blocks on the queue instead of losing work.
	env := newTestEnv(t, 2, 4, &stubPaymentClient{delay: 2 * time.Millisecond})

	const total = 100
	ids := make([]uuid.UUID, 0, total)
	amount := decimal.MustNew(100, 0)
	deadline := time.Now().Add(time.Minute)

	for i := 0; i < total; i++ {
		paymentID := uuid.New()
		_, err := env.svc.ProcessPayment(context.Background(), uuid.New(), amount, paymentID, deadline)
		assert.NoError(t, err)
		ids = append(ids, paymentID)
	}

	assert.NoError(t, env.pool.Shutdown(context.Background()))

	for _, paymentID := range ids {
		state, err := env.events.State(paymentID)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStateSucceeded, state)
	}
}
