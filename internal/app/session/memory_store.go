package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/haruyama/pos-backend/internal/app/model"
)

type memoryCartStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewMemoryCartStore returns an in-process CartStore. It serves tests and
// single-node deployments that run without Redis.
func NewMemoryCartStore() CartStore {
	return &memoryCartStore{carts: make(map[string][]byte)}
}

func (s *memoryCartStore) Get(_ context.Context, sessionID string) (*model.Cart, error) {
	s.mu.RLock()
	data, ok := s.carts[sessionID]
	s.mu.RUnlock()
	if !ok {
		return &model.Cart{}, nil
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return &model.Cart{}, nil
	}
	return &cart, nil
}

func (s *memoryCartStore) Put(_ context.Context, sessionID string, cart *model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.carts[sessionID] = data
	s.mu.Unlock()
	return nil
}

func (s *memoryCartStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()
	return nil
}
