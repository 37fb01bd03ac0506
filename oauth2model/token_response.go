package oauth2model

// TokenResponse is the token endpoint response body (RFC 6749 §5.1),
// returned for both the authorization_code and refresh_token grants.
type TokenResponse struct {
	// AccessToken is the bearer credential. Opaque to this client;
	// it is stored and replayed, never inspected for authorization.
	AccessToken string `json:"access_token"`

	// RefreshToken mints new access tokens without re-authentication.
	// May be absent when the server does not issue one.
	RefreshToken string `json:"refresh_token,omitempty"`

	// IDToken is the OIDC identity token, present when the "openid"
	// scope was granted.
	IDToken string `json:"id_token,omitempty"`

	// TokenType is "Bearer" in practice.
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the access token lifetime in seconds. The store
	// converts it to an absolute expiry instant at persist time.
	ExpiresIn int `json:"expires_in,omitempty"`

	// Scope is the space-delimited granted scope set. May be narrower
	// than requested, or empty when the server echoes nothing back.
	Scope string `json:"scope,omitempty"`
}
