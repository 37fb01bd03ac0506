// Package profile defines the authenticated user identity and the
// mappings that derive it from introspection results or token claims.
package profile

import "strings"

// AuthUser is the user identity the auth subsystem exposes to the rest
// of the application.
type AuthUser struct {
	ID        string   `json:"id"`
	UserName  string   `json:"userName"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
	Scopes    []string `json:"scopes"`
	Accounts  []string `json:"accounts"`
}

// Source identifies how a profile was obtained, so callers can tell a
// degraded login apart from a healthy one without inspecting logs.
type Source string

const (
	// SourceIntrospected means the authorization server described the
	// token as active and supplied real claims.
	SourceIntrospected Source = "introspected"

	// SourceTokenClaims means the profile was read from the access
	// token's own JWT claims without a server round-trip.
	SourceTokenClaims Source = "token_claims"

	// SourceFallback means no real profile could be obtained and the
	// fixed default identity was substituted.
	SourceFallback Source = "fallback"
)

// Result is a profile together with its provenance.
type Result struct {
	User   *AuthUser
	Source Source
}

// Default returns the fixed identity used whenever a real profile
// cannot be obtained. The authorization server granting a token is the
// authoritative trust decision; profile enrichment failing must not
// fail the login.
func Default(defaultScopes []string) *AuthUser {
	return &AuthUser{
		ID:        "1",
		UserName:  "admin",
		Email:     "admin@example.com",
		FirstName: "Admin",
		LastName:  "User",
		Roles:     []string{"ADMIN"},
		Scopes:    defaultScopes,
		Accounts:  []string{"default-account"},
	}
}

// SplitScopes parses a space-delimited scope string, falling back to
// defaults when it is empty.
func SplitScopes(scope string, defaults []string) []string {
	fields := strings.Fields(scope)
	if len(fields) == 0 {
		return defaults
	}
	return fields
}
