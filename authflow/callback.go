package authflow

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	errs "github.com/adminconsole/go-auth-client/internal/errors"
	"github.com/adminconsole/go-auth-client/oauth2model"
	"github.com/adminconsole/go-auth-client/profile"
)

// HandleAuthCallback completes a login attempt after the authorization
// server has redirected back with code and state. The sequence is:
// verify state, clear it unconditionally, exchange the code, derive a
// profile (which never fails the login), persist tokens and profile.
func (c *Controller) HandleAuthCallback(ctx context.Context, code, state string) (*LoginResult, error) {
	_, err := c.states.VerifyState(ctx, state)

	// The stored state and its debug record are consumed by the
	// verification attempt itself, whatever its outcome.
	if clearErr := c.states.ClearState(ctx); clearErr != nil {
		c.logger.Warn().Err(clearErr).Msg("failed to clear stored state after verification")
	}

	if err != nil {
		return nil, errors.Wrap(err, "[HandleAuthCallback] VerifyState")
	}

	tokenResponse, err := c.exchangeCode(ctx, code)
	if err != nil {
		return nil, errors.Wrapf(errs.ErrAuthenticationFailed, "[HandleAuthCallback] %v", err)
	}

	profileResult := c.fetchProfile(ctx, tokenResponse.AccessToken)

	if err := c.tokens.Store(ctx, tokenResponse); err != nil {
		return nil, errors.Wrapf(errs.ErrAuthenticationFailed, "[HandleAuthCallback] store tokens: %v", err)
	}
	if err := c.tokens.StoreProfile(ctx, profileResult.User); err != nil {
		return nil, errors.Wrapf(errs.ErrAuthenticationFailed, "[HandleAuthCallback] store profile: %v", err)
	}

	return &LoginResult{
		User:          profileResult.User,
		ProfileSource: profileResult.Source,
		Tokens:        tokenResponse,
	}, nil
}

// exchangeCode swaps the authorization code for tokens at the token
// endpoint. When PKCE is enabled the stored verifier authenticates the
// exchange; if the verifier has gone missing the configured client
// secret is sent instead, since some servers accept either. The
// verifier is deleted after the exchange attempt regardless of outcome
// so it can never be replayed.
func (c *Controller) exchangeCode(ctx context.Context, code string) (*oauth2model.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", string(oauth2model.AuthorizationCodeGrant))
	form.Set("code", code)
	form.Set("client_id", c.cfg.GetClientID())
	form.Set("redirect_uri", c.cfg.GetRedirectURI())

	if c.cfg.GetPKCEEnabled() {
		verifier, err := c.store.Transient.Get(ctx, c.cfg.GetCodeVerifierKey())
		if err != nil || verifier == "" {
			c.logger.Warn().Msg("PKCE enabled but no stored code verifier, falling back to client secret")
			if secret := c.cfg.GetClientSecret(); secret != "" {
				form.Set("client_secret", secret)
			}
		} else {
			form.Set("code_verifier", verifier)
			defer func() {
				if err := c.store.Transient.Delete(ctx, c.cfg.GetCodeVerifierKey()); err != nil {
					c.logger.Warn().Err(err).Msg("failed to delete code verifier")
				}
			}()
		}
	} else if secret := c.cfg.GetClientSecret(); secret != "" {
		form.Set("client_secret", secret)
	}

	body, err := c.postForm(ctx, c.cfg.GetTokenEndpoint(), form, "")
	if err != nil {
		return nil, errors.Wrapf(errs.ErrTokenExchangeFailed, "[exchangeCode] %v", err)
	}

	var tokenResponse oauth2model.TokenResponse
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		return nil, errors.Wrap(err, "[exchangeCode] decode token response")
	}
	return &tokenResponse, nil
}

// fetchProfile derives the user identity for a freshly issued access
// token. The server granting the token is the authoritative trust
// decision, so every failure here degrades instead of failing the
// login: an inactive token yields the fixed default identity, and an
// unreachable introspection endpoint first tries the token's own JWT
// claims before giving up on a real profile.
func (c *Controller) fetchProfile(ctx context.Context, accessToken string) profile.Result {
	defaultScopes := c.cfg.GetDefaultScopes()

	form := url.Values{}
	form.Set("token", accessToken)

	body, err := c.postForm(ctx, c.cfg.GetIntrospectionEndpoint(), form, accessToken)
	if err != nil {
		c.logger.Warn().Err(err).Msg("token introspection unavailable, deriving profile locally")
		if user, claimsErr := profile.FromTokenClaims(accessToken, defaultScopes); claimsErr == nil {
			return profile.Result{User: user, Source: profile.SourceTokenClaims}
		}
		return profile.Result{User: profile.Default(defaultScopes), Source: profile.SourceFallback}
	}

	var introspection oauth2model.Introspection
	if err := json.Unmarshal(body, &introspection); err != nil {
		c.logger.Warn().Err(err).Msg("malformed introspection response, using default profile")
		return profile.Result{User: profile.Default(defaultScopes), Source: profile.SourceFallback}
	}

	if !introspection.Active {
		c.logger.Warn().Msg("introspection reports token inactive, using default profile")
		return profile.Result{User: profile.Default(defaultScopes), Source: profile.SourceFallback}
	}

	return profile.Result{
		User:   profile.FromIntrospection(&introspection, defaultScopes),
		Source: profile.SourceIntrospected,
	}
}

// postForm issues a form-encoded POST and returns the response body.
// A non-2xx status is reported with the structured OAuth2 error body
// when one can be parsed, or the raw response text otherwise.
func (c *Controller) postForm(ctx context.Context, endpoint string, form url.Values, bearer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "http.NewRequestWithContext")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "httpClient.Do")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "io.ReadAll")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var oauthErr oauth2model.ErrorResponse
		if json.Unmarshal(body, &oauthErr) == nil && oauthErr.Error != "" {
			return nil, errors.Errorf("%s: %s (%s)", resp.Status, oauthErr.Error, oauthErr.ErrorDescription)
		}
		return nil, errors.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}
