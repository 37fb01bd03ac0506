package session

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/adminconsole/go-auth-client/internal/config"
	errs "github.com/adminconsole/go-auth-client/internal/errors"
	"github.com/adminconsole/go-auth-client/oauth2model"
	"github.com/adminconsole/go-auth-client/profile"
)

// TokenStore persists the authenticated session in the durable scope:
// access/refresh tokens, the absolute expiry instant, granted scopes
// and the user profile. It owns the expiry arithmetic and the
// authentication predicates derived from it.
type TokenStore struct {
	keys    config.StorageConfig
	client  config.ClientConfig
	store   KeyValueStore
	nowTime func() time.Time
}

// TokenStoreOption modifies a TokenStore.
type TokenStoreOption func(*TokenStore)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) TokenStoreOption {
	return func(ts *TokenStore) {
		ts.nowTime = nowFunc
	}
}

// NewTokenStore builds a TokenStore over the durable scope of store.
func NewTokenStore(cfg config.Config, store *DualScopeStore, options ...TokenStoreOption) (*TokenStore, error) {
	if store == nil || store.Durable == nil {
		return nil, errors.New("[NewTokenStore] durable store is required")
	}
	ts := &TokenStore{
		keys:    cfg,
		client:  cfg,
		store:   store.Durable,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(ts)
	}
	return ts, nil
}

// Store persists a token response. The expiry is recorded as an
// absolute epoch-milliseconds instant computed at store time, so later
// expiry checks need no knowledge of when the response arrived. An
// empty granted scope falls back to the configured default scopes.
func (ts *TokenStore) Store(ctx context.Context, tr *oauth2model.TokenResponse) error {
	if err := ts.store.Set(ctx, ts.keys.GetAccessTokenKey(), tr.AccessToken); err != nil {
		return errors.Wrap(err, "[TokenStore.Store] access token")
	}
	if err := ts.store.Set(ctx, ts.keys.GetRefreshTokenKey(), tr.RefreshToken); err != nil {
		return errors.Wrap(err, "[TokenStore.Store] refresh token")
	}

	expiresAt := ts.nowTime().UnixMilli() + int64(tr.ExpiresIn)*1000
	if err := ts.store.Set(ctx, ts.keys.GetTokenExpiryKey(), strconv.FormatInt(expiresAt, 10)); err != nil {
		return errors.Wrap(err, "[TokenStore.Store] expiry")
	}

	scopes := profile.SplitScopes(tr.Scope, ts.client.GetDefaultScopes())
	if err := ts.store.Set(ctx, ts.keys.GetScopesKey(), strings.Join(scopes, " ")); err != nil {
		return errors.Wrap(err, "[TokenStore.Store] scopes")
	}
	return nil
}

// StoreProfile serializes the user profile into the durable scope.
func (ts *TokenStore) StoreProfile(ctx context.Context, user *profile.AuthUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "[TokenStore.StoreProfile] json.Marshal")
	}
	if err := ts.store.Set(ctx, ts.keys.GetProfileKey(), string(data)); err != nil {
		return errors.Wrap(err, "[TokenStore.StoreProfile] store.Set")
	}
	return nil
}

// AccessToken returns the stored access token, or "" when none is stored.
func (ts *TokenStore) AccessToken(ctx context.Context) (string, error) {
	return ts.get(ctx, ts.keys.GetAccessTokenKey())
}

// RefreshToken returns the stored refresh token, or "" when none is stored.
func (ts *TokenStore) RefreshToken(ctx context.Context) (string, error) {
	return ts.get(ctx, ts.keys.GetRefreshTokenKey())
}

// Scopes returns the stored granted scopes, falling back to the
// configured defaults when unset or empty.
func (ts *TokenStore) Scopes(ctx context.Context) ([]string, error) {
	raw, err := ts.get(ctx, ts.keys.GetScopesKey())
	if err != nil {
		return nil, err
	}
	return profile.SplitScopes(raw, ts.client.GetDefaultScopes()), nil
}

// Profile returns the stored user profile, or nil when none is stored.
func (ts *TokenStore) Profile(ctx context.Context) (*profile.AuthUser, error) {
	raw, err := ts.get(ctx, ts.keys.GetProfileKey())
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var user profile.AuthUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, errors.Wrap(err, "[TokenStore.Profile] json.Unmarshal")
	}
	return &user, nil
}

// IsExpired reports whether the stored token has passed its expiry.
// No recorded expiry counts as expired, as does an unparseable one: a
// session whose expiry cannot be read must not be treated as live.
func (ts *TokenStore) IsExpired(ctx context.Context) bool {
	raw, err := ts.get(ctx, ts.keys.GetTokenExpiryKey())
	if err != nil || raw == "" {
		return true
	}
	expiresAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	return ts.nowTime().UnixMilli() >= expiresAt
}

// IsAuthenticated reports whether a non-empty access token is stored
// and it has not expired.
func (ts *TokenStore) IsAuthenticated(ctx context.Context) bool {
	token, err := ts.AccessToken(ctx)
	if err != nil || token == "" {
		return false
	}
	return !ts.IsExpired(ctx)
}

// Clear removes every persisted session field. All deletions are
// attempted even if one fails; the first failure is returned.
func (ts *TokenStore) Clear(ctx context.Context) error {
	var firstErr error
	for _, key := range []string{
		ts.keys.GetAccessTokenKey(),
		ts.keys.GetRefreshTokenKey(),
		ts.keys.GetTokenExpiryKey(),
		ts.keys.GetScopesKey(),
		ts.keys.GetProfileKey(),
	} {
		if err := ts.store.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "[TokenStore.Clear] %q", key)
		}
	}
	return firstErr
}

func (ts *TokenStore) get(ctx context.Context, key string) (string, error) {
	value, err := ts.store.Get(ctx, key)
	if errors.Is(err, errs.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "[TokenStore.get] %q", key)
	}
	return value, nil
}
