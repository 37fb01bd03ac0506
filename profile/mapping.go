package profile

import (
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/adminconsole/go-auth-client/internal/utils"
	"github.com/adminconsole/go-auth-client/oauth2model"
)

// FromIntrospection maps an active introspection result to an AuthUser.
// Every field falls back individually, so a server that only returns
// sub/username still yields a usable profile:
//
//	id:       sub, then username, then "1"
//	email:    claim, then "{username}@example.com"
//	roles:    claim, then ["ADMIN"]
//	scopes:   space-split claim, then defaultScopes
//	accounts: claim, then ["default-account"]
func FromIntrospection(in *oauth2model.Introspection, defaultScopes []string) *AuthUser {
	id := in.Sub
	if id == "" {
		id = in.Username
	}
	if id == "" {
		id = "1"
	}

	email := in.Email
	if email == "" {
		email = fmt.Sprintf("%s@example.com", in.Username)
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{"ADMIN"}
	}

	accounts := in.Accounts
	if len(accounts) == 0 {
		accounts = []string{"default-account"}
	}

	return &AuthUser{
		ID:        id,
		UserName:  in.Username,
		Email:     email,
		FirstName: in.GivenName,
		LastName:  in.FamilyName,
		Roles:     roles,
		Scopes:    SplitScopes(in.Scope, defaultScopes),
		Accounts:  accounts,
	}
}

// FromTokenClaims derives a profile from the access token's own JWT
// claims without contacting the server. The parse is unverified: the
// token was just issued to us over the back channel, and the profile is
// informational, not an authorization input.
func FromTokenClaims(rawToken string, defaultScopes []string) (*AuthUser, error) {
	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[FromTokenClaims] ParseUnverified")
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[FromTokenClaims] error extracting claims")
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	if username == "" {
		username, _ = claims["preferred_username"].(string)
	}
	email, _ := claims["email"].(string)
	givenName, _ := claims["given_name"].(string)
	familyName, _ := claims["family_name"].(string)
	scope, _ := claims["scope"].(string)

	var roles []string
	if claimRoles, ok := claims["roles"].([]any); ok {
		roles = utils.ToStringSlice(claimRoles)
	}
	var accounts []string
	if claimAccounts, ok := claims["accounts"].([]any); ok {
		accounts = utils.ToStringSlice(claimAccounts)
	}

	in := &oauth2model.Introspection{
		Active:     true,
		Sub:        sub,
		Username:   username,
		Email:      email,
		GivenName:  givenName,
		FamilyName: familyName,
		Roles:      roles,
		Scope:      scope,
		Accounts:   accounts,
	}
	return FromIntrospection(in, defaultScopes), nil
}
