package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks a per-user epoch. Tokens issued before the epoch
// are refused. Token timestamps have one-second resolution, so a token
// issued earlier within the same second as a revocation stays valid.
type RevocationStore interface {
	ValidSince(ctx context.Context, userID int64) (time.Time, error)
	RevokeAll(ctx context.Context, userID int64, at time.Time) error
}

// RedisRevocationStore keeps epochs as unix seconds under one key per user.
type RedisRevocationStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisRevocationStore builds a store. ttl should be at least the token
// lifetime; after that every token the epoch could reject has expired anyway.
func NewRedisRevocationStore(client *redis.Client, prefix string, ttl time.Duration) *RedisRevocationStore {
	if prefix == "" {
		prefix = "moneymanager:revoked:"
	}
	return &RedisRevocationStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisRevocationStore) key(userID int64) string {
	return s.prefix + strconv.FormatInt(userID, 10)
}

// ValidSince returns the user's epoch, or the zero time when none is set.
func (s *RedisRevocationStore) ValidSince(ctx context.Context, userID int64) (time.Time, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("auth: read revocation: %w", err)
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("auth: decode revocation %q: %w", raw, err)
	}
	return time.Unix(secs, 0), nil
}

// RevokeAll moves the user's epoch to at, truncated to seconds.
func (s *RedisRevocationStore) RevokeAll(ctx context.Context, userID int64, at time.Time) error {
	if err := s.client.Set(ctx, s.key(userID), at.Unix(), s.ttl).Err(); err != nil {
		return fmt.Errorf("auth: write revocation: %w", err)
	}
	return nil
}

var _ RevocationStore = (*RedisRevocationStore)(nil)
