package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/membership-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// WalletCache persists the session wallet for a user under a single key.
// It is a derived cache of the profile's wallet address: last writer wins,
// no versioning, and the session manager is the only writer.
type WalletCache struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewWalletCache creates a new wallet cache
func NewWalletCache(redis *RedisCache, ttl time.Duration) *WalletCache {
	return &WalletCache{redis: redis, ttl: ttl}
}

// key returns the cache key for a user's wallet
// Format: wallet:<userID>
func (c *WalletCache) key(userID string) string {
	return fmt.Sprintf("wallet:%s", userID)
}

// Get retrieves the cached wallet for a user. Returns (nil, nil) when no
// wallet is cached. A corrupt entry is dropped and treated as absent.
func (c *WalletCache) Get(ctx context.Context, userID string) (*models.Wallet, error) {
	raw, err := c.redis.Get(ctx, c.key(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, storeError("get cached wallet", err)
	}

	var wallet models.Wallet
	if err := json.Unmarshal([]byte(raw), &wallet); err != nil {
		// Unreadable cache entries are removed rather than surfaced.
		_ = c.redis.Del(ctx, c.key(userID))
		return nil, nil
	}

	return &wallet, nil
}

// Put stores the wallet for a user, replacing any previous entry
func (c *WalletCache) Put(ctx context.Context, userID string, wallet *models.Wallet) error {
	raw, err := json.Marshal(wallet)
	if err != nil {
		return storeError("marshal cached wallet", err)
	}

	if err := c.redis.Set(ctx, c.key(userID), raw, c.ttl); err != nil {
		return storeError("put cached wallet", err)
	}

	return nil
}

// Clear removes the cached wallet for a user
func (c *WalletCache) Clear(ctx context.Context, userID string) error {
	if err := c.redis.Del(ctx, c.key(userID)); err != nil {
		return storeError("clear cached wallet", err)
	}
	return nil
}
