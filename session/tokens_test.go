package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adminconsole/go-auth-client/internal/config"
	"github.com/adminconsole/go-auth-client/oauth2model"
	"github.com/adminconsole/go-auth-client/profile"
	"github.com/adminconsole/go-auth-client/session"
)

type tokenStoreFixture struct {
	store  *session.DualScopeStore
	tokens *session.TokenStore
	cfg    config.Config
	now    time.Time
}

// setupTokenStoreFixture pins the clock so expiry arithmetic is exact.
func setupTokenStoreFixture(t *testing.T) *tokenStoreFixture {
	t.Helper()

	f := &tokenStoreFixture{
		cfg:   config.New(),
		store: session.NewDualScopeStore(session.NewMemoryStore(), session.NewMemoryStore()),
		now:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	tokens, err := session.NewTokenStore(f.cfg, f.store, session.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.tokens = tokens
	return f
}

func (f *tokenStoreFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestStoreAndReadBackTokens(t *testing.T) {
	f := setupTokenStoreFixture(t)
	ctx := context.Background()

	err := f.tokens.Store(ctx, &oauth2model.TokenResponse{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
		Scope:        "openid profile",
	})
	require.NoError(t, err)

	accessToken, err := f.tokens.AccessToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "AT1", accessToken)

	refreshToken, err := f.tokens.RefreshToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "RT1", refreshToken)

	scopes, err := f.tokens.Scopes(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"openid", "profile"}, scopes)
}

func TestExpiryArithmetic(t *testing.T) {
	f := setupTokenStoreFixture(t)
	ctx := context.Background()

	err := f.tokens.Store(ctx, &oauth2model.TokenResponse{AccessToken: "AT1", ExpiresIn: 3600})
	require.NoError(t, err)

	f.advance(1 * time.Second)
	require.False(t, f.tokens.IsExpired(ctx))
	require.True(t, f.tokens.IsAuthenticated(ctx))

	// Boundary: expiry instant itself counts as expired.
	f.advance(3600*time.Second - 1*time.Second)
	require.True(t, f.tokens.IsExpired(ctx))

	f.advance(1 * time.Millisecond)
	require.True(t, f.tokens.IsExpired(ctx))
	require.False(t, f.tokens.IsAuthenticated(ctx))
}

func TestNoStoredExpiryCountsAsExpired(t *testing.T) {
	f := setupTokenStoreFixture(t)
	require.True(t, f.tokens.IsExpired(context.Background()))
}

func TestUnparseableExpiryCountsAsExpired(t *testing.T) {
	f := setupTokenStoreFixture(t)
	ctx := context.Background()

	err := f.tokens.Store(ctx, &oauth2model.TokenResponse{AccessToken: "AT1", ExpiresIn: 3600})
	require.NoError(t, err)
	require.NoError(t, f.store.Durable.Set(ctx, f.cfg.GetTokenExpiryKey(), "not-a-number"))

	require.True(t, f.tokens.IsExpired(ctx))
	require.False(t, f.tokens.IsAuthenticated(ctx))
}

func TestEmptyScopeFallsBackToDefaults(t *testing.T) {
	f := setupTokenStoreFixture(t)
	ctx := context.Background()

	err := f.tokens.Store(ctx, &oauth2model.TokenResponse{AccessToken: "AT1", ExpiresIn: 60})
	require.NoError(t, err)

	scopes, err := f.tokens.Scopes(ctx)
	require.NoError(t, err)
	require.Equal(t, f.cfg.GetDefaultScopes(), scopes)
}

func TestProfileRoundTrip(t *testing.T) {
	f := setupTokenStoreFixture(t)
	ctx := context.Background()

	stored, err := f.tokens.Profile(ctx)
	require.NoError(t, err)
	require.Nil(t, stored)

	user := &profile.AuthUser{
		ID:       "u1",
		UserName: "alice",
		Email:    "alice@example.com",
		Roles:    []string{"ADMIN"},
		Scopes:   []string{"openid"},
		Accounts: []string{"acct-1"},
	}
	require.NoError(t, f.tokens.StoreProfile(ctx, user))

	stored, err = f.tokens.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, user, stored)
}

func TestClearRemovesAllSessionFields(t *testing.T) {
	f := setupTokenStoreFixture(t)
	ctx := context.Background()

	err := f.tokens.Store(ctx, &oauth2model.TokenResponse{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		ExpiresIn:    3600,
		Scope:        "openid",
	})
	require.NoError(t, err)
	require.NoError(t, f.tokens.StoreProfile(ctx, &profile.AuthUser{ID: "u1"}))

	require.NoError(t, f.tokens.Clear(ctx))

	accessToken, err := f.tokens.AccessToken(ctx)
	require.NoError(t, err)
	require.Empty(t, accessToken)

	refreshToken, err := f.tokens.RefreshToken(ctx)
	require.NoError(t, err)
	require.Empty(t, refreshToken)

	stored, err := f.tokens.Profile(ctx)
	require.NoError(t, err)
	require.Nil(t, stored)

	require.True(t, f.tokens.IsExpired(ctx))
	require.False(t, f.tokens.IsAuthenticated(ctx))
}
