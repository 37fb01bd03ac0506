// Package authflow orchestrates the OAuth2 authorization code flow for
// the admin console: login initiation, callback handling, token refresh
// and logout, on top of the state manager and token store.
package authflow

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/adminconsole/go-auth-client/internal/config"
	errs "github.com/adminconsole/go-auth-client/internal/errors"
	"github.com/adminconsole/go-auth-client/oauth2model"
	"github.com/adminconsole/go-auth-client/pkce"
	"github.com/adminconsole/go-auth-client/profile"
	"github.com/adminconsole/go-auth-client/session"
	"github.com/adminconsole/go-auth-client/statemgr"
)

// LoginResult is what a completed callback hands back to the caller:
// the user identity, how it was obtained, and the raw token response.
type LoginResult struct {
	User          *profile.AuthUser
	ProfileSource profile.Source
	Tokens        *oauth2model.TokenResponse
}

// Controller owns the authentication session. External collaborators
// only call its public operations and read its derived predicates; no
// other component mutates the stored session fields.
type Controller struct {
	cfg        config.Config
	states     *statemgr.Manager
	tokens     *session.TokenStore
	store      *session.DualScopeStore
	httpClient *http.Client
	logger     zerolog.Logger
}

// ControllerOption modifies a Controller.
type ControllerOption func(*Controller)

// WithHTTPClient replaces the HTTP client used for all token endpoint,
// introspection and logout calls.
func WithHTTPClient(client *http.Client) ControllerOption {
	return func(c *Controller) {
		c.httpClient = client
	}
}

// NewController wires the auth flow controller together.
func NewController(
	cfg config.Config,
	states *statemgr.Manager,
	tokens *session.TokenStore,
	store *session.DualScopeStore,
	logger zerolog.Logger,
	options ...ControllerOption,
) (*Controller, error) {
	if states == nil {
		return nil, errors.New("[NewController] state manager is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewController] token store is required")
	}
	if store == nil || store.Transient == nil {
		return nil, errors.New("[NewController] transient store is required")
	}

	c := &Controller{
		cfg:        cfg,
		states:     states,
		tokens:     tokens,
		store:      store,
		httpClient: &http.Client{Timeout: cfg.GetHTTPTimeout()},
		logger:     logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// InitiateLogin starts a login attempt: it generates and stores the
// anti-CSRF state and, when PKCE is enabled, a verifier/challenge pair
// with the verifier kept in the transient scope only. It returns the
// authorization URL for the caller to navigate to. currentURL is the
// page the attempt started from, recorded for diagnostics.
func (c *Controller) InitiateLogin(ctx context.Context, currentURL string) (string, error) {
	state, err := c.states.GenerateState(ctx, currentURL)
	if err != nil {
		return "", errors.Wrapf(errs.ErrLoginInitiationFailed, "[InitiateLogin] GenerateState: %v", err)
	}

	params := url.Values{}
	params.Set("response_type", string(oauth2model.CodeResponseType))
	params.Set("client_id", c.cfg.GetClientID())
	params.Set("redirect_uri", c.cfg.GetRedirectURI())
	params.Set("scope", strings.Join(c.cfg.GetDefaultScopes(), " "))
	params.Set("state", state)

	if c.cfg.GetPKCEEnabled() {
		pair, err := pkce.New()
		if err != nil {
			return "", errors.Wrapf(errs.ErrLoginInitiationFailed, "[InitiateLogin] pkce.New: %v", err)
		}
		if err := c.store.Transient.Set(ctx, c.cfg.GetCodeVerifierKey(), pair.Verifier); err != nil {
			return "", errors.Wrapf(errs.ErrLoginInitiationFailed, "[InitiateLogin] verifier Set: %v", err)
		}
		params.Set("code_challenge", pair.Challenge)
		params.Set("code_challenge_method", pair.Method)
	}

	return c.cfg.GetAuthorizationEndpoint() + "?" + params.Encode(), nil
}

// StoredToken returns the persisted access token, or "" when absent.
func (c *Controller) StoredToken(ctx context.Context) (string, error) {
	return c.tokens.AccessToken(ctx)
}

// StoredRefreshToken returns the persisted refresh token, or "" when absent.
func (c *Controller) StoredRefreshToken(ctx context.Context) (string, error) {
	return c.tokens.RefreshToken(ctx)
}

// StoredScopes returns the persisted granted scopes, defaulted when unset.
func (c *Controller) StoredScopes(ctx context.Context) ([]string, error) {
	return c.tokens.Scopes(ctx)
}

// IsTokenExpired reports whether the stored token has passed its expiry.
func (c *Controller) IsTokenExpired(ctx context.Context) bool {
	return c.tokens.IsExpired(ctx)
}

// IsAuthenticated reports whether a live session exists.
func (c *Controller) IsAuthenticated(ctx context.Context) bool {
	return c.tokens.IsAuthenticated(ctx)
}

// ClearStoredTokens removes every persisted session field.
func (c *Controller) ClearStoredTokens(ctx context.Context) error {
	return c.tokens.Clear(ctx)
}

