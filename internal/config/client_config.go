package config

import "strings"

const (
	clientIDVar       = "CLIENT_ID"
	clientSecretVar   = "CLIENT_SECRET"
	redirectURIVar    = "REDIRECT_URI"
	postLogoutURIVar  = "POST_LOGOUT_REDIRECT_URI"
	defaultScopesVar  = "DEFAULT_SCOPES"
	defaultScopesList = "openid profile email"
)

type ClientConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetPostLogoutRedirectURI() string
	GetDefaultScopes() []string
}

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetClientID() string {
	return GetEnv(clientIDVar, "admin-console")
}

func (Client) GetClientSecret() string {
	return GetEnv(clientSecretVar, "")
}

func (Client) GetRedirectURI() string {
	return GetEnv(redirectURIVar, "http://localhost:3000/callback")
}

func (Client) GetPostLogoutRedirectURI() string {
	return GetEnv(postLogoutURIVar, "http://localhost:3000/")
}

// GetDefaultScopes returns the scopes requested at login and assumed when
// a token response or introspection result carries none.
func (Client) GetDefaultScopes() []string {
	return strings.Fields(GetEnv(defaultScopesVar, defaultScopesList))
}
