package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/adminconsole/go-auth-client/internal/config"
	errs "github.com/adminconsole/go-auth-client/internal/errors"
	"github.com/adminconsole/go-auth-client/oauth2model"
	"github.com/adminconsole/go-auth-client/session"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return session.NewRedisStore(rdb, "auth", ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", value)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, errs.ErrKeyNotFound)
}

func TestRedisStoreMissingKey(t *testing.T) {
	store, _ := newRedisStore(t, 0)

	_, err := store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, errs.ErrKeyNotFound)
}

func TestRedisStorePrefixesKeys(t *testing.T) {
	store, mr := newRedisStore(t, 0)

	require.NoError(t, store.Set(context.Background(), "k", "v"))
	require.True(t, mr.Exists("auth:k"))
}

func TestRedisStoreAppliesTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, "k")
	require.ErrorIs(t, err, errs.ErrKeyNotFound)
}

func TestTokenStoreOverRedis(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	ctx := context.Background()

	dual := session.NewDualScopeStore(session.NewMemoryStore(), store)
	tokens, err := session.NewTokenStore(config.New(), dual)
	require.NoError(t, err)

	err = tokens.Store(ctx, &oauth2model.TokenResponse{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		ExpiresIn:    3600,
		Scope:        "openid",
	})
	require.NoError(t, err)

	accessToken, err := tokens.AccessToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "AT1", accessToken)
	require.True(t, tokens.IsAuthenticated(ctx))
}
