package authflow

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"

	errs "github.com/adminconsole/go-auth-client/internal/errors"
	"github.com/adminconsole/go-auth-client/oauth2model"
)

// RefreshToken exchanges a refresh token for a new token pair and
// persists it. The stored profile is left untouched: refreshing does
// not change who the user is. Callers should treat a failure as
// "session invalid, route to login".
func (c *Controller) RefreshToken(ctx context.Context, refreshToken string) (*oauth2model.TokenResponse, error) {
	if refreshToken == "" {
		return nil, errors.Wrap(errs.ErrNoRefreshToken, "[RefreshToken]")
	}

	form := url.Values{}
	form.Set("grant_type", string(oauth2model.RefreshTokenGrant))
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", c.cfg.GetClientID())
	if secret := c.cfg.GetClientSecret(); secret != "" {
		form.Set("client_secret", secret)
	}

	body, err := c.postForm(ctx, c.cfg.GetTokenEndpoint(), form, "")
	if err != nil {
		return nil, errors.Wrapf(errs.ErrTokenRefreshFailed, "[RefreshToken] %v", err)
	}

	var tokenResponse oauth2model.TokenResponse
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		return nil, errors.Wrapf(errs.ErrTokenRefreshFailed, "[RefreshToken] decode: %v", err)
	}

	if err := c.tokens.Store(ctx, &tokenResponse); err != nil {
		return nil, errors.Wrap(err, "[RefreshToken] store tokens")
	}
	return &tokenResponse, nil
}
