package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NonceStore issues single-use signing nonces keyed by wallet address.
// Nonces expire after the configured TTL and are consumed atomically, so a
// captured signature cannot be replayed through a second link attempt.
type NonceStore struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewNonceStore creates a new nonce store
func NewNonceStore(redis *RedisCache, ttl time.Duration) *NonceStore {
	return &NonceStore{redis: redis, ttl: ttl}
}

// key returns the nonce key for a wallet address
// Format: wallet:nonce:<address>
func (s *NonceStore) key(address string) string {
	return fmt.Sprintf("wallet:nonce:%s", strings.ToLower(address))
}

// Issue generates a fresh nonce for an address, replacing any outstanding one
func (s *NonceStore) Issue(ctx context.Context, address string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", storeError("generate nonce", err)
	}
	nonce := hex.EncodeToString(buf)

	if err := s.redis.Set(ctx, s.key(address), nonce, s.ttl); err != nil {
		return "", storeError("store nonce", err)
	}

	return nonce, nil
}

// Consume atomically retrieves and deletes the outstanding nonce for an
// address. Returns ("", nil) when no nonce is outstanding.
func (s *NonceStore) Consume(ctx context.Context, address string) (string, error) {
	nonce, err := s.redis.GetDel(ctx, s.key(address))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", storeError("consume nonce", err)
	}

	return nonce, nil
}
