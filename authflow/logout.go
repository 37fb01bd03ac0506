package authflow

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/adminconsole/go-auth-client/pkce"
)

// Logout signs the user out. When a token is stored it is revoked at
// the authorization server on a best-effort basis; a flaky server must
// never block a local sign-out, so revocation failures are only logged.
// Local state (PKCE verifier and every token store field) is cleared
// unconditionally. postLogoutRedirectURI overrides the configured
// default when non-empty.
func (c *Controller) Logout(ctx context.Context, postLogoutRedirectURI string) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("could not read stored token during logout")
	}

	if token != "" {
		c.revokeRemoteSession(ctx, token, postLogoutRedirectURI)
	}

	if err := c.store.Transient.Delete(ctx, c.cfg.GetCodeVerifierKey()); err != nil {
		c.logger.Warn().Err(err).Msg("failed to delete code verifier during logout")
	}
	if err := c.tokens.Clear(ctx); err != nil {
		return errors.Wrap(err, "[Logout] tokens.Clear")
	}
	return nil
}

// revokeRemoteSession tells the authorization server to end the
// session. The token rides both as a query parameter on the endpoint
// URL and as id_token_hint in the form body, matching what the server
// expects. A fresh one-time state accompanies the request; it is never
// stored since no redirect comes back through the callback handler.
func (c *Controller) revokeRemoteSession(ctx context.Context, token, postLogoutRedirectURI string) {
	state, err := pkce.GenerateCodeVerifier()
	if err != nil {
		c.logger.Warn().Err(err).Msg("could not generate logout state, skipping server-side logout")
		return
	}

	redirectURI := postLogoutRedirectURI
	if redirectURI == "" {
		redirectURI = c.cfg.GetPostLogoutRedirectURI()
	}

	endpoint := c.cfg.GetLogoutEndpoint() + "?token=" + url.QueryEscape(token)

	form := url.Values{}
	form.Set("id_token_hint", token)
	form.Set("client_id", c.cfg.GetClientID())
	form.Set("post_logout_redirect_uri", redirectURI)
	form.Set("state", state)

	if _, err := c.postForm(ctx, endpoint, form, token); err != nil {
		c.logger.Warn().Err(err).Msg("server-side logout failed, clearing local session anyway")
	}
}
