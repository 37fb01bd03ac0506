package config

import "time"

const (
	authServerURLVar = "AUTH_SERVER_URL"
	httpTimeoutVar   = "HTTP_TIMEOUT_SECONDS"
)

type EndpointConfig interface {
	GetAuthServerURL() string
	GetAuthorizationEndpoint() string
	GetTokenEndpoint() string
	GetIntrospectionEndpoint() string
	GetLogoutEndpoint() string
	GetHTTPTimeout() time.Duration
}

type Endpoints struct{}

var _ EndpointConfig = Endpoints{}

// GetAuthServerURL returns the authorization server base URL
// (e.g. "https://auth.example.com")
func (Endpoints) GetAuthServerURL() string {
	return GetEnv(authServerURLVar, "http://localhost:8080")
}

func (e Endpoints) GetAuthorizationEndpoint() string {
	return GetEnv("AUTHORIZATION_ENDPOINT", e.GetAuthServerURL()+"/oauth2/authorize")
}

func (e Endpoints) GetTokenEndpoint() string {
	return GetEnv("TOKEN_ENDPOINT", e.GetAuthServerURL()+"/oauth2/token")
}

func (e Endpoints) GetIntrospectionEndpoint() string {
	return GetEnv("INTROSPECTION_ENDPOINT", e.GetAuthServerURL()+"/oauth2/introspect")
}

func (e Endpoints) GetLogoutEndpoint() string {
	return GetEnv("LOGOUT_ENDPOINT", e.GetAuthServerURL()+"/oauth2/logout")
}

func (Endpoints) GetHTTPTimeout() time.Duration {
	seconds := GetEnvInt(httpTimeoutVar, 30)
	return time.Duration(seconds) * time.Second
}
