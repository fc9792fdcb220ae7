package http

import (
	"net/http"
	"time"

	"github.com/MikeRez0/yppaymentgate/internal/core/domain"
	"github.com/MikeRez0/yppaymentgate/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.Service
}

func NewOrderHandler(service port.Service, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type CreateOrderRequest struct {
	Price float64 `json:"price"`
}

type OrderResp struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func orderResp(o *domain.Order) OrderResp {
	price, _ := o.Price.Float64()
	return OrderResp{
		ID:        o.ID,
		UserID:    o.UserID,
		Price:     price,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}

func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	orderReq := CreateOrderRequest{}
	err := ctx.ShouldBindBodyWithJSON(&orderReq)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	price, err := decimal.NewFromFloat64(orderReq.Price)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order := &domain.Order{UserID: userID, Price: price}
	newOrder, err := oh.service.CreateOrder(ctx, order)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, orderResp(newOrder), http.StatusCreated)
}

func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("orderID"))
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.GetOrder(ctx, orderID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, orderResp(order))
}

func (oh *OrderHandler) ListOrdersByUser(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	list, err := oh.service.GetOrdersByUser(ctx, userID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]OrderResp, 0, len(list))
	for _, o := range list {
		result = append(result, orderResp(o))
	}

	oh.handleSuccess(ctx, result)
}
