package service

import (
	"context"
	"errors"
	"time"

	"github.com/MikeRez0/yppaymentgate/internal/core/domain"
	"github.com/MikeRez0/yppaymentgate/internal/core/port"
	"github.com/MikeRez0/yppaymentgate/internal/core/utils"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type Service struct {
	repo         port.Repository
	tokenService port.TokenService
	events       port.EventStore
	dispatcher   port.Dispatcher
	payments     port.PaymentClient
	metrics      port.Metrics
	logger       *zap.Logger
}

func NewService(repo port.Repository, tokenService port.TokenService,
	events port.EventStore, dispatcher port.Dispatcher,
	payments port.PaymentClient, metrics port.Metrics,
	logger *zap.Logger) (*Service, error) {
	return &Service{
		repo:         repo,
		tokenService: tokenService,
		events:       events,
		dispatcher:   dispatcher,
		payments:     payments,
		metrics:      metrics,
		logger:       logger,
	}, nil
}

func (s *Service) RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	exUser, err := s.repo.GetUserByLogin(ctx, user.Login)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		s.logger.Error("Get user", zap.Error(err))
		return nil, domain.ErrInternal
	}

	if exUser != nil {
		return nil, domain.ErrConflictingData
	}

	newUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		s.logger.Error("Create user", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return newUser, nil
}

func (s *Service) LoginUser(ctx context.Context, login string, password string) (string, error) {
	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", domain.ErrInternal
	}

	err = utils.ComparePassword(password, user.Password)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(user)
	if err != nil {
		s.logger.Error("Create token", zap.Error(err))
		return "", domain.ErrTokenCreation
	}

	return token, nil
}

func (s *Service) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.Status = domain.OrderStatusCollecting
	order.CreatedAt = time.Now()

	newOrder, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, err
		}
		s.logger.Error("Create order", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return newOrder, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		s.logger.Error("Read order", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return order, nil
}

func (s *Service) GetOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Get orders for user", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

// PayOrder checks and locks the order for payment, then hands the request
// to ProcessPayment. All failures here surface synchronously and leave no
// payment aggregate behind.
func (s *Service) PayOrder(ctx context.Context, orderID uuid.UUID,
	paymentID uuid.UUID, deadline time.Time) (time.Time, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return time.Time{}, domain.ErrOrderNotFound
		}
		s.logger.Error("Read order for payment", zap.Error(err))
		return time.Time{}, domain.ErrInternal
	}

	if !order.Payable() {
		return time.Time{}, domain.ErrOrderNotPayable
	}

	_, err = s.repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusPaymentInProgress)
	if err != nil {
		s.logger.Error("Update order status", zap.Error(err))
		return time.Time{}, domain.ErrInternal
	}

	return s.ProcessPayment(ctx, orderID, order.Price, paymentID, deadline)
}

// ProcessPayment records the aggregate and schedules the asynchronous
// submission. It returns as soon as the task is queued; Submit may block
// while the dispatch pool is saturated, stalling the request goroutine on
// purpose so overload propagates upstream instead of dropping work.
func (s *Service) ProcessPayment(ctx context.Context, orderID uuid.UUID,
	amount decimal.Decimal, paymentID uuid.UUID, deadline time.Time) (time.Time, error) {
	acceptedAt := time.Now()

	created, err := s.events.Create(paymentID, orderID, amount, acceptedAt)
	if err != nil {
		return time.Time{}, err
	}
	s.logger.Debug("Payment created",
		zap.String("payment", created.Payment.String()),
		zap.String("order", orderID.String()))

	s.dispatcher.Submit(s.submissionTask(paymentID, amount, acceptedAt, deadline))

	return acceptedAt, nil
}

// submissionTask builds the unit of work a dispatch worker runs: submit to
// the external processor, time the whole attempt, append the outcome.
func (s *Service) submissionTask(paymentID uuid.UUID, amount decimal.Decimal,
	createdAt time.Time, deadline time.Time) func() {
	return func() {
		err := s.events.Append(paymentID, domain.PaymentSubmittedEvent{
			Payment:     paymentID,
			SubmittedAt: time.Now(),
		})
		if err != nil {
			// Create happens before Submit, so this means the log is broken.
			s.logger.Error("Append submitted event",
				zap.String("payment", paymentID.String()), zap.Error(err))
			return
		}

		submitErr := s.payments.SubmitPaymentRequest(context.Background(),
			paymentID, amount, createdAt, deadline)
		completedAt := time.Now()

		s.metrics.ObservePaymentDuration(completedAt.Sub(createdAt))

		outcome := s.classifyOutcome(paymentID, submitErr, completedAt, deadline)
		if err := s.events.Append(paymentID, outcome); err != nil {
			s.logger.Error("Append outcome event",
				zap.String("payment", paymentID.String()), zap.Error(err))
		}
	}
}

// classifyOutcome picks the terminal event for a finished attempt.
// A completion observed past the deadline is a timeout no matter how the
// external call went.
func (s *Service) classifyOutcome(paymentID uuid.UUID, submitErr error,
	completedAt time.Time, deadline time.Time) domain.PaymentEvent {
	if completedAt.After(deadline) {
		s.logger.Warn("Payment completed past deadline",
			zap.String("payment", paymentID.String()),
			zap.Time("deadline", deadline), zap.Error(submitErr))
		return domain.PaymentTimedOutEvent{
			Payment:     paymentID,
			Deadline:    deadline,
			CompletedAt: completedAt,
		}
	}

	if submitErr != nil {
		s.logger.Warn("Payment submission failed",
			zap.String("payment", paymentID.String()), zap.Error(submitErr))
		return domain.PaymentFailedEvent{
			Payment:     paymentID,
			Reason:      submitErr.Error(),
			CompletedAt: completedAt,
		}
	}

	return domain.PaymentSucceededEvent{
		Payment:     paymentID,
		CompletedAt: completedAt,
	}
}

func (s *Service) PaymentStatus(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, []domain.PaymentEvent, error) {
	events, err := s.events.Events(paymentID)
	if err != nil {
		return nil, nil, err
	}

	payment, err := domain.FoldPayment(events)
	if err != nil {
		return nil, nil, err
	}

	return payment, events, nil
}
