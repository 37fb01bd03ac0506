package discovery_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adminconsole/go-auth-client/discovery"
	errs "github.com/adminconsole/go-auth-client/internal/errors"
)

func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 server.URL,
			"authorization_endpoint": server.URL + "/oauth2/authorize",
			"token_endpoint":         server.URL + "/oauth2/token",
			"introspection_endpoint": server.URL + "/oauth2/introspect",
			"end_session_endpoint":   server.URL + "/oauth2/logout",
			"jwks_uri":               server.URL + "/oauth2/jwks",
		})
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestResolveEndpoints(t *testing.T) {
	server := newDiscoveryServer(t)

	endpoints, err := discovery.Resolve(context.Background(), server.URL)
	require.NoError(t, err)

	require.Equal(t, server.URL+"/oauth2/authorize", endpoints.AuthURL)
	require.Equal(t, server.URL+"/oauth2/token", endpoints.TokenURL)
	require.Equal(t, server.URL+"/oauth2/introspect", endpoints.IntrospectionURL)
	require.Equal(t, server.URL+"/oauth2/logout", endpoints.EndSessionURL)

	oauth2Endpoint := endpoints.OAuth2Endpoint()
	require.Equal(t, endpoints.AuthURL, oauth2Endpoint.AuthURL)
	require.Equal(t, endpoints.TokenURL, oauth2Endpoint.TokenURL)
}

func TestResolveUnreachableIssuer(t *testing.T) {
	server := newDiscoveryServer(t)
	issuer := server.URL
	server.Close()

	_, err := discovery.Resolve(context.Background(), issuer)
	require.ErrorIs(t, err, errs.ErrDiscoveryFailed)
}
