package main

import (
	"context"
	"fmt"

	"github.com/MikeRez0/yppaymentgate/internal/adapter/auth"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/client/payment"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/config"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/handler/http"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/logger"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/metrics"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/storage"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/storage/eventstore"
	"github.com/MikeRez0/yppaymentgate/internal/adapter/storage/repository"
	"github.com/MikeRez0/yppaymentgate/internal/core/dispatch"
	"github.com/MikeRez0/yppaymentgate/internal/core/service"
	"github.com/MikeRez0/yppaymentgate/internal/core/utils"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repo creating error", zap.Error(err))
		return
	}

	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	paymentClient, err := payment.NewClient(conf.Processor, log.Named("Payment client"))
	if err != nil {
		log.Error("payment client creating error", zap.Error(err))
		return
	}

	events := eventstore.NewMemoryStore()

	pool := dispatch.NewPool(conf.Dispatch.Workers, conf.Dispatch.QueueCapacity, log.Named("Dispatch"))
	defer func() {
		if err := pool.Shutdown(context.Background()); err != nil {
			log.Error("dispatch pool shutdown error", zap.Error(err))
		}
	}()

	mtr, err := metrics.New(prometheus.DefaultRegisterer, pool)
	if err != nil {
		log.Error("metrics creating error", zap.Error(err))
		return
	}

	svc, err := service.NewService(repo, tokenService, events, pool, paymentClient, mtr, log.Named("Service"))
	if err != nil {
		log.Error("service creating error", zap.Error(err))
		return
	}

	limiter := utils.NewSlidingWindowRateLimiter(conf.RateLimit.Capacity, conf.RateLimit.Window)

	userHandler, err := http.NewUserHandler(svc, log.Named("User handler"))
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	orderHandler, err := http.NewOrderHandler(svc, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	paymentHandler, err := http.NewPaymentHandler(svc, limiter, mtr, log.Named("Payment handler"))
	if err != nil {
		log.Error("payment handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService, userHandler, orderHandler, paymentHandler, log.Named("Router"))
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
