package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusCollecting        OrderStatus = "COLLECTING"
	OrderStatusPaymentInProgress OrderStatus = "PAYMENT_IN_PROGRESS"
	OrderStatusPaid              OrderStatus = "PAID"
)

type Order struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Price     decimal.Decimal
	Status    OrderStatus
	CreatedAt time.Time
}

// Payable reports whether a payment may be started for the order.
// Statuses move forward only, so anything past COLLECTING is closed for payment.
func (o *Order) Payable() bool {
	return o.Status == OrderStatusCollecting
}
