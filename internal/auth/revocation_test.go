package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRevocations(t *testing.T) (*RedisRevocationStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRevocationStore(client, "", time.Hour), mr
}

func TestRedisRevocationDefaultsToZero(t *testing.T) {
	store, _ := newRedisRevocations(t)

	since, err := store.ValidSince(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, since.IsZero())
}

func TestRedisRevocationStoresEpochPerUser(t *testing.T) {
	store, mr := newRedisRevocations(t)
	at := time.Unix(1_700_000_123, 999)

	require.NoError(t, store.RevokeAll(context.Background(), 5, at))

	since, err := store.ValidSince(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_123), since.Unix())

	other, err := store.ValidSince(context.Background(), 6)
	require.NoError(t, err)
	assert.True(t, other.IsZero())

	assert.True(t, mr.Exists("moneymanager:revoked:5"))
	assert.Equal(t, time.Hour, mr.TTL("moneymanager:revoked:5"))

	mr.FastForward(2 * time.Hour)
	since, err = store.ValidSince(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, since.IsZero())
}

func TestRedisRevocationRejectsGarbage(t *testing.T) {
	store, mr := newRedisRevocations(t)
	require.NoError(t, mr.Set("moneymanager:revoked:9", "yesterday"))

	_, err := store.ValidSince(context.Background(), 9)
	assert.Error(t, err)
}

func TestRedisRevocationWiredIntoAuthenticator(t *testing.T) {
	store, _ := newRedisRevocations(t)
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	tokens := newTestTokens(t, time.Hour, clock)
	a := NewAuthenticator(AuthenticatorConfig{Tokens: tokens, Users: newFakeUsers(1), Revocations: store})

	token, _, err := tokens.Issue(1)
	require.NoError(t, err)
	clock.Advance(time.Second)
	require.NoError(t, store.RevokeAll(context.Background(), 1, clock.Now()))

	_, err = a.Authenticate(context.Background(), []string{token})
	requireReason(t, err, ReasonInvalid)
}
