package profile_test

import (
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/adminconsole/go-auth-client/oauth2model"
	"github.com/adminconsole/go-auth-client/profile"
)

var defaultScopes = []string{"openid", "profile", "email"}

func TestFromIntrospectionFullClaims(t *testing.T) {
	user := profile.FromIntrospection(&oauth2model.Introspection{
		Active:     true,
		Sub:        "u1",
		Username:   "alice",
		Email:      "alice@corp.example.com",
		GivenName:  "Alice",
		FamilyName: "Archer",
		Roles:      []string{"OPERATOR"},
		Scope:      "openid accounts.read",
		Accounts:   []string{"acct-7"},
	}, defaultScopes)

	require.Equal(t, "u1", user.ID)
	require.Equal(t, "alice", user.UserName)
	require.Equal(t, "alice@corp.example.com", user.Email)
	require.Equal(t, "Alice", user.FirstName)
	require.Equal(t, "Archer", user.LastName)
	require.Equal(t, []string{"OPERATOR"}, user.Roles)
	require.Equal(t, []string{"openid", "accounts.read"}, user.Scopes)
	require.Equal(t, []string{"acct-7"}, user.Accounts)
}

func TestFromIntrospectionFallbacks(t *testing.T) {
	user := profile.FromIntrospection(&oauth2model.Introspection{
		Active:   true,
		Username: "bob",
	}, defaultScopes)

	require.Equal(t, "bob", user.ID, "id falls back to username")
	require.Equal(t, "bob@example.com", user.Email)
	require.Equal(t, []string{"ADMIN"}, user.Roles)
	require.Equal(t, defaultScopes, user.Scopes)
	require.Equal(t, []string{"default-account"}, user.Accounts)
}

func TestFromIntrospectionEmptyClaims(t *testing.T) {
	user := profile.FromIntrospection(&oauth2model.Introspection{Active: true}, defaultScopes)
	require.Equal(t, "1", user.ID, "id bottoms out at '1'")
}

func TestDefaultIdentity(t *testing.T) {
	user := profile.Default(defaultScopes)

	require.Equal(t, "1", user.ID)
	require.Equal(t, "admin", user.UserName)
	require.Equal(t, "admin@example.com", user.Email)
	require.Equal(t, []string{"ADMIN"}, user.Roles)
	require.Equal(t, defaultScopes, user.Scopes)
	require.Equal(t, []string{"default-account"}, user.Accounts)
}

func TestFromTokenClaims(t *testing.T) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub":         "u42",
		"username":    "carol",
		"email":       "carol@corp.example.com",
		"given_name":  "Carol",
		"family_name": "Chen",
		"roles":       []any{"AUDITOR"},
		"scope":       "openid audit.read",
		"accounts":    []any{"acct-1", "acct-2"},
	})
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	user, err := profile.FromTokenClaims(signed, defaultScopes)
	require.NoError(t, err)
	require.Equal(t, "u42", user.ID)
	require.Equal(t, "carol", user.UserName)
	require.Equal(t, []string{"AUDITOR"}, user.Roles)
	require.Equal(t, []string{"openid", "audit.read"}, user.Scopes)
	require.Equal(t, []string{"acct-1", "acct-2"}, user.Accounts)
}

func TestFromTokenClaimsOpaqueToken(t *testing.T) {
	_, err := profile.FromTokenClaims("AT1-not-a-jwt", defaultScopes)
	require.Error(t, err)
}

func TestSplitScopes(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, profile.SplitScopes("a b", defaultScopes))
	require.Equal(t, defaultScopes, profile.SplitScopes("", defaultScopes))
	require.Equal(t, defaultScopes, profile.SplitScopes("   ", defaultScopes))
}
