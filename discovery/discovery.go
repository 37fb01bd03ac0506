// Package discovery resolves the authorization server's endpoints from
// its OIDC discovery document, so deployments only need to configure
// the issuer URL.
package discovery

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	errs "github.com/adminconsole/go-auth-client/internal/errors"
)

// Endpoints are the resolved authorization server URLs the auth flow
// needs. IntrospectionURL and EndSessionURL are optional in the
// discovery document and may be empty.
type Endpoints struct {
	AuthURL          string
	TokenURL         string
	IntrospectionURL string
	EndSessionURL    string
}

// extraClaims are the discovery document fields go-oidc does not expose
// through its typed API.
type extraClaims struct {
	IntrospectionEndpoint string `json:"introspection_endpoint"`
	EndSessionEndpoint    string `json:"end_session_endpoint"`
}

// Resolve fetches {issuerURL}/.well-known/openid-configuration and
// extracts the endpoints.
func Resolve(ctx context.Context, issuerURL string) (*Endpoints, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, errors.Wrapf(errs.ErrDiscoveryFailed, "[Resolve] %s: %v", issuerURL, err)
	}

	var extra extraClaims
	if err := provider.Claims(&extra); err != nil {
		return nil, errors.Wrap(err, "[Resolve] provider.Claims")
	}

	endpoint := provider.Endpoint()
	return &Endpoints{
		AuthURL:          endpoint.AuthURL,
		TokenURL:         endpoint.TokenURL,
		IntrospectionURL: extra.IntrospectionEndpoint,
		EndSessionURL:    extra.EndSessionEndpoint,
	}, nil
}

// OAuth2Endpoint converts resolved endpoints to the x/oauth2 form for
// callers integrating with that package directly.
func (e *Endpoints) OAuth2Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{AuthURL: e.AuthURL, TokenURL: e.TokenURL}
}
