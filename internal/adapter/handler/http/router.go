package http

import (
	"github.com/MikeRez0/yppaymentgate/internal/adapter/config"
	"github.com/MikeRez0/yppaymentgate/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	userHandler *UserHandler,
	orderHandler *OrderHandler,
	paymentHandler *PaymentHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		user := api.Group("/user")
		{
			user.POST("/register", userHandler.RegisterUser)
			user.POST("/login", userHandler.LoginUser)
		}

		orders := api.Group("/orders")
		{
			orders.Use(authCheck(tokenService, logger))
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrdersByUser)
			orders.GET("/:orderID", orderHandler.GetOrder)
			orders.POST("/:orderID/payment", paymentHandler.PayOrder)
		}

		payments := api.Group("/payments")
		{
			payments.Use(authCheck(tokenService, logger))
			payments.GET("/:paymentID", paymentHandler.GetPayment)
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
