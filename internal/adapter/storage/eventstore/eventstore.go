package eventstore

import (
	"sync"
	"time"

	"github.com/MikeRez0/yppaymentgate/internal/core/domain"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

// MemoryStore keeps one append-only event log per payment aggregate.
// Logs are never truncated: they are the audit history of every attempt.
// Aggregates are independent, so locking is per identifier; the store-level
// lock only guards the map itself.
type MemoryStore struct {
	mu   sync.RWMutex
	logs map[uuid.UUID]*aggregateLog
}

type aggregateLog struct {
	mu     sync.Mutex
	events []domain.PaymentEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		logs: make(map[uuid.UUID]*aggregateLog),
	}
}

func (s *MemoryStore) Create(paymentID uuid.UUID, orderID uuid.UUID,
	amount decimal.Decimal, createdAt time.Time) (domain.PaymentCreatedEvent, error) {
	event := domain.PaymentCreatedEvent{
		Payment:   paymentID,
		OrderID:   orderID,
		Amount:    amount,
		CreatedAt: createdAt,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logs[paymentID]; ok {
		return domain.PaymentCreatedEvent{}, domain.ErrDuplicatePayment
	}

	s.logs[paymentID] = &aggregateLog{events: []domain.PaymentEvent{event}}

	return event, nil
}

func (s *MemoryStore) Append(paymentID uuid.UUID, event domain.PaymentEvent) error {
	log, err := s.log(paymentID)
	if err != nil {
		return err
	}

	log.mu.Lock()
	defer log.mu.Unlock()

	log.events = append(log.events, event)

	return nil
}

func (s *MemoryStore) State(paymentID uuid.UUID) (domain.PaymentState, error) {
	payment, _, err := s.fold(paymentID)
	if err != nil {
		return "", err
	}
	return payment.State, nil
}

func (s *MemoryStore) Events(paymentID uuid.UUID) ([]domain.PaymentEvent, error) {
	_, events, err := s.fold(paymentID)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (s *MemoryStore) fold(paymentID uuid.UUID) (*domain.Payment, []domain.PaymentEvent, error) {
	log, err := s.log(paymentID)
	if err != nil {
		return nil, nil, err
	}

	log.mu.Lock()
	events := make([]domain.PaymentEvent, len(log.events))
	copy(events, log.events)
	log.mu.Unlock()

	payment, err := domain.FoldPayment(events)
	if err != nil {
		return nil, nil, err
	}

	return payment, events, nil
}

func (s *MemoryStore) log(paymentID uuid.UUID) (*aggregateLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.logs[paymentID]
	if !ok {
		return nil, domain.ErrUnknownPayment
	}
	return log, nil
}
