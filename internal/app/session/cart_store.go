package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// CartStore persists session carts. Implementations must return an empty
// cart (not an error) when the session has none yet.
type CartStore interface {
	Get(ctx context.Context, sessionID string) (*model.Cart, error)
	Put(ctx context.Context, sessionID string, cart *model.Cart) error
	Clear(ctx context.Context, sessionID string) error
}

type redisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore returns a CartStore backed by Redis. Carts are JSON
// blobs under cart:<session id> and expire after ttl of inactivity.
func NewRedisCartStore(client *redis.Client, ttl time.Duration) CartStore {
	return &redisCartStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func (s *redisCartStore) Get(ctx context.Context, sessionID string) (*model.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return &model.Cart{}, nil
	}
	if err != nil {
		logger.Error("Failed to read cart from session store", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		// A corrupt blob should not wedge the terminal; start over.
		logger.Warn("Discarding unreadable cart session data", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return &model.Cart{}, nil
	}
	return &cart, nil
}

func (s *redisCartStore) Put(ctx context.Context, sessionID string, cart *model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		logger.Error("Failed to persist cart to session store", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	return nil
}

func (s *redisCartStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		logger.Error("Failed to clear cart session", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	return nil
}
