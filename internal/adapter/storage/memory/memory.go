package memory

import (
	"context"
	"sync"

	"github.com/MikeRez0/yppaymentgate/internal/core/domain"
	"github.com/google/uuid"
)

// Repository is a map-backed port.Repository for tests and database-less runs.
type Repository struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	orders map[uuid.UUID]domain.Order
}

func NewRepository() *Repository {
	return &Repository{
		users:  make(map[string]domain.User),
		orders: make(map[uuid.UUID]domain.Order),
	}
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Login]; ok {
		return nil, domain.ErrConflictingData
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	r.users[user.Login] = *user

	return user, nil
}

func (r *Repository) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[login]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return &user, nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; ok {
		return nil, domain.ErrConflictingData
	}

	r.orders[order.ID] = *order

	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return &order, nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}

	order.Status = status
	r.orders[orderID] = order

	return &order, nil
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*domain.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			o := order
			list = append(list, &o)
		}
	}
	return list, nil
}
