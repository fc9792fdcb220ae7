package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MikeRez0/yppaymentgate/internal/adapter/auth"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/config"
	handler "github.com/MikeRez0/yppaymentgate/internal/adapter/handler/http"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/metrics"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/storage/eventstore"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/storage/memory"
	"github.com/MikeRez0/yppaymentgate/internal/core/dispatch"
	"github.com/MikeRez0/yppaymentgate/internal/core/domain"
	"github.com/MikeRez0/yppaymentgate/internal/core/service"
	"github.com/MikeRez0/yppaymentgate/internal/core/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type testServer struct {
	router *handler.Router
	svc    *service.Service
	token  string
	pool   *dispatch.Pool
}

type okPaymentClient struct{}

func (okPaymentClient) SubmitPaymentRequest(ctx context.Context, paymentID uuid.UUID,
	amount decimal.Decimal, createdAt time.Time, deadline time.Time) error {
	return nil
}

func newTestServer(t *testing.T, limiterCapacity int) *testServer {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	repo := memory.NewRepository()
	events := eventstore.NewMemoryStore()
	pool := dispatch.NewPool(4, 16, logger)

	mtr, err := metrics.New(prometheus.NewRegistry(), pool)
	assert.NoError(t, err)

	tokenService, err := auth.New()
	assert.NoError(t, err)

	svc, err := service.NewService(repo, tokenService, events, pool, okPaymentClient{}, mtr, logger)
	assert.NoError(t, err)

	limiter := utils.NewSlidingWindowRateLimiter(limiterCapacity, 6*time.Second)

	userHandler, err := handler.NewUserHandler(svc, logger)
	assert.NoError(t, err)
	orderHandler, err := handler.NewOrderHandler(svc, logger)
	assert.NoError(t, err)
	paymentHandler, err := handler.NewPaymentHandler(svc, limiter, mtr, logger)
	assert.NoError(t, err)

	router, err := handler.NewRouter(&config.HTTP{}, tokenService,
		userHandler, orderHandler, paymentHandler, logger)
	assert.NoError(t, err)

	user := &domain.User{ID: uuid.New(), Login: "test"}
	token, err := tokenService.CreateToken(user)
	assert.NoError(t, err)

	return &testServer{router: router, svc: svc, token: token, pool: pool}
}

func (ts *testServer) payURL(orderID uuid.UUID) string {
	deadline := time.Now().Add(5 * time.Second).UnixMilli()
	return fmt.Sprintf("/api/orders/%s/payment?deadline=%d", orderID, deadline)
}

func (ts *testServer) do(method, url string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, http.NoBody)
	if authorized {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createOrder(t *testing.T) *domain.Order {
	order := &domain.Order{UserID: uuid.New(), Price: decimal.MustNew(100, 0)}
	order, err := ts.svc.CreateOrder(context.Background(), order)
	assert.NoError(t, err)
	return order
}

func TestPayOrder_Accepted(t *testing.T) {
	ts := newTestServer(t, 64)
	defer func() { _ = ts.pool.Shutdown(context.Background()) }()

	order := ts.createOrder(t)

	rec := ts.do(http.MethodPost, ts.payURL(order.ID), true)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := handler.PaymentSubmissionResp{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.TransactionID)
	assert.NotZero(t, resp.Timestamp)

	// The aggregate is queryable immediately after acceptance.
	status := ts.do(http.MethodGet, "/api/payments/"+resp.TransactionID.String(), true)
	assert.Equal(t, http.StatusOK, status.Code)
}

func TestPayOrder_RateLimited(t *testing.T) {
	ts := newTestServer(t, 1)
	defer func() { _ = ts.pool.Shutdown(context.Background()) }()

	order := ts.createOrder(t)

	rec := ts.do(http.MethodPost, ts.payURL(order.ID), true)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Capacity spent: denied with a retry hint, nothing mutated.
	second := ts.createOrder(t)
	rec = ts.do(http.MethodPost, ts.payURL(second.ID), true)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))

	unchanged, err := ts.svc.GetOrder(context.Background(), second.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCollecting, unchanged.Status)
}

func TestPayOrder_OrderNotFound(t *testing.T) {
	ts := newTestServer(t, 64)
	defer func() { _ = ts.pool.Shutdown(context.Background()) }()

	rec := ts.do(http.MethodPost, ts.payURL(uuid.New()), true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayOrder_Unauthorized(t *testing.T) {
	ts := newTestServer(t, 64)
	defer func() { _ = ts.pool.Shutdown(context.Background()) }()

	order := ts.createOrder(t)

	rec := ts.do(http.MethodPost, ts.payURL(order.ID), false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPayOrder_BadDeadline(t *testing.T) {
	ts := newTestServer(t, 64)
	defer func() { _ = ts.pool.Shutdown(context.Background()) }()

	order := ts.createOrder(t)

	rec := ts.do(http.MethodPost, "/api/orders/"+order.ID.String()+"/payment", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
