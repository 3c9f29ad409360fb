package store

import (
	"context"
	"sync"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/models"
)

// MemStore is the in-memory driver, used in tests and for deployments
// that don't need orders to survive a restart.
type MemStore struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
}

func NewMemStore() *MemStore {
	return &MemStore{orders: make(map[string]*models.Order)}
}

func (s *MemStore) Create(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.OrderNumber]; ok {
		return ErrExists
	}
	s.orders[order.OrderNumber] = clone(order)
	return nil
}

func (s *MemStore) Get(ctx context.Context, orderNumber string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderNumber]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(order), nil
}

func (s *MemStore) Update(ctx context.Context, orderNumber string, patch Patch) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderNumber]
	if !ok {
		return nil, ErrNotFound
	}
	patch.apply(order)
	return clone(order), nil
}
