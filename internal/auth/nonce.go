package auth

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	nonceKeyPrefix  = "nonce:"
	defaultNonceTTL = 5 * time.Minute
)

// NonceStore issues single-use sign-in nonces. The Redis implementation
// keys each nonce by its own value so the unauthenticated nonce endpoint
// needs no address; consumption is atomic (GETDEL).
type NonceStore interface {
	Issue(ctx context.Context) (uint64, error)
	Consume(ctx context.Context, nonce string) (bool, error)
}

// RedisNonceStore keeps issued nonces in Redis with a short TTL.
type RedisNonceStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisNonceStore returns a new RedisNonceStore.
func NewRedisNonceStore(rdb *redis.Client, ttl time.Duration) *RedisNonceStore {
	if ttl <= 0 {
		ttl = defaultNonceTTL
	}
	return &RedisNonceStore{rdb: rdb, ttl: ttl}
}

// Issue stores a fresh nonce and returns it.
func (s *RedisNonceStore) Issue(ctx context.Context) (uint64, error) {
	n, err := newNonce()
	if err != nil {
		return 0, err
	}
	key := nonceKeyPrefix + strconv.FormatUint(n, 10)
	if err := s.rdb.Set(ctx, key, "1", s.ttl).Err(); err != nil {
		return 0, err
	}
	return n, nil
}

// Consume removes the nonce and reports whether it was present. A second
// call with the same value returns false: each nonce authenticates once.
func (s *RedisNonceStore) Consume(ctx context.Context, nonce string) (bool, error) {
	if nonce == "" {
		return false, nil
	}
	_, err := s.rdb.GetDel(ctx, nonceKeyPrefix+nonce).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// newNonce returns a random value below 2^53 so it survives a round trip
// through a JSON number.
func newNonce() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("rand: %w", err)
	}
	return binary.BigEndian.Uint64(b[:]) >> 11, nil
}
