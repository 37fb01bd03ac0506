package oauth2model

// Introspection is the introspection endpoint response (RFC 7662 §2.2)
// plus the user claims this deployment's authorization server includes.
// When Active is false no other field is trusted.
type Introspection struct {
	Active     bool     `json:"active"`
	Sub        string   `json:"sub,omitempty"`
	Username   string   `json:"username,omitempty"`
	Email      string   `json:"email,omitempty"`
	GivenName  string   `json:"given_name,omitempty"`
	FamilyName string   `json:"family_name,omitempty"`
	Roles      []string `json:"roles,omitempty"`
	Scope      string   `json:"scope,omitempty"`
	Accounts   []string `json:"accounts,omitempty"`
	Aud        string   `json:"aud,omitempty"`
	Iss        string   `json:"iss,omitempty"`
	Exp        int64    `json:"exp,omitempty"`
	Iat        int64    `json:"iat,omitempty"`
}
