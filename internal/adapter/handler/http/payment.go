package http

import (
	"strconv"
	"time"

	"github.com/MikeRez0/yppaymentgate/internal/core/domain"
	"github.com/MikeRez0/yppaymentgate/internal/core/port"
	"github.com/MikeRez0/yppaymentgate/internal/core/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// retryAfterHint is the client-facing backoff hint on admission denial, in seconds.
const retryAfterHint = "5"

type PaymentHandler struct {
	Handler
	service port.Service
	limiter *utils.SlidingWindowRateLimiter
	metrics port.Metrics
}

func NewPaymentHandler(service port.Service, limiter *utils.SlidingWindowRateLimiter,
	metrics port.Metrics, logger *zap.Logger) (*PaymentHandler, error) {
	return &PaymentHandler{
		Handler: *NewHandler(logger),
		service: service,
		limiter: limiter,
		metrics: metrics,
	}, nil
}

type PaymentSubmissionResp struct {
	Timestamp     int64     `json:"timestamp"`
	TransactionID uuid.UUID `json:"transactionId"`
}

// PayOrder is the admission edge: count the request, gate it on the rate
// limiter before touching any state, then hand it to the service.
func (ph *PaymentHandler) PayOrder(ctx *gin.Context) {
	ph.metrics.IncIncomingRequests()

	if !ph.limiter.Allow() {
		ctx.Header("Retry-After", retryAfterHint)
		ph.handleError(ctx, domain.ErrAdmissionDenied)
		return
	}

	orderID, err := uuid.Parse(ctx.Param("orderID"))
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	deadlineMilli, err := strconv.ParseInt(ctx.Query("deadline"), 10, 64)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}
	deadline := time.UnixMilli(deadlineMilli)

	paymentID := uuid.New()

	acceptedAt, err := ph.service.PayOrder(ctx, orderID, paymentID, deadline)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, PaymentSubmissionResp{
		Timestamp:     acceptedAt.UnixMilli(),
		TransactionID: paymentID,
	})
}

type PaymentEventResp struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

type PaymentResp struct {
	ID        uuid.UUID          `json:"id"`
	OrderID   uuid.UUID          `json:"orderId"`
	Amount    float64            `json:"amount"`
	State     string             `json:"state"`
	CreatedAt time.Time          `json:"createdAt"`
	Events    []PaymentEventResp `json:"events"`
}

func (ph *PaymentHandler) GetPayment(ctx *gin.Context) {
	paymentID, err := uuid.Parse(ctx.Param("paymentID"))
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	payment, events, err := ph.service.PaymentStatus(ctx, paymentID)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	amount, _ := payment.Amount.Float64()
	resp := PaymentResp{
		ID:        payment.ID,
		OrderID:   payment.OrderID,
		Amount:    amount,
		State:     string(payment.State),
		CreatedAt: payment.CreatedAt,
		Events:    make([]PaymentEventResp, 0, len(events)),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, PaymentEventResp{
			Type: eventType(e),
			At:   e.OccurredAt(),
		})
	}

	ph.handleSuccess(ctx, resp)
}

func eventType(e domain.PaymentEvent) string {
	switch e.(type) {
	case domain.PaymentCreatedEvent:
		return "CREATED"
	case domain.PaymentSubmittedEvent:
		return "SUBMITTED"
	case domain.PaymentSucceededEvent:
		return "SUCCEEDED"
	case domain.PaymentFailedEvent:
		return "FAILED"
	case domain.PaymentTimedOutEvent:
		return "TIMED_OUT"
	}
	return "UNKNOWN"
}
