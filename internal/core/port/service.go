package port

import (
	"context"
	"time"

	"github.com/MikeRez0/yppaymentgate/internal/core/domain"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type Service interface {
	RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error)
	LoginUser(ctx context.Context, login string, password string) (string, error)

	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)

	// PayOrder is the request-layer entry point: it checks the order,
	// flips it to PAYMENT_IN_PROGRESS and hands over to ProcessPayment.
	PayOrder(ctx context.Context, orderID uuid.UUID,
		paymentID uuid.UUID, deadline time.Time) (time.Time, error)
	// ProcessPayment records the aggregate and dispatches the async
	// submission. Returns the acceptance timestamp; the outcome is
	// recorded later in the event log.
	ProcessPayment(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal,
		paymentID uuid.UUID, deadline time.Time) (time.Time, error)
	PaymentStatus(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, []domain.PaymentEvent, error)
}
