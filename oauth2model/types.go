package oauth2model

// GrantType is the OAuth 2.0 grant presented at the token endpoint.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	AuthorizationCodeGrant GrantType = "authorization_code"

	// RefreshTokenGrant exchanges a refresh token for new tokens.
	RefreshTokenGrant GrantType = "refresh_token"
)

// ResponseType is the value of the authorization request's
// response_type parameter. Only the code flow is supported.
type ResponseType string

const (
	CodeResponseType ResponseType = "code"
)

// ErrorResponse is the structured error body the token endpoint returns
// on a failed request (RFC 6749 §5.2).
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
