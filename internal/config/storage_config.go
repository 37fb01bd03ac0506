package config

// StorageConfig names the keys under which the auth subsystem persists
// its session fields. The exact strings are configuration rather than
// code so that deployments sharing a store can namespace them.
type StorageConfig interface {
	GetAccessTokenKey() string
	GetRefreshTokenKey() string
	GetTokenExpiryKey() string
	GetScopesKey() string
	GetProfileKey() string
	GetStateKey() string
	GetStateDebugKey() string
	GetCodeVerifierKey() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetAccessTokenKey() string {
	return GetEnv("ACCESS_TOKEN_KEY", "auth.access_token")
}

func (Storage) GetRefreshTokenKey() string {
	return GetEnv("REFRESH_TOKEN_KEY", "auth.refresh_token")
}

func (Storage) GetTokenExpiryKey() string {
	return GetEnv("TOKEN_EXPIRY_KEY", "auth.token_expiry")
}

func (Storage) GetScopesKey() string {
	return GetEnv("SCOPES_KEY", "auth.scopes")
}

func (Storage) GetProfileKey() string {
	return GetEnv("PROFILE_KEY", "auth.user_profile")
}

func (Storage) GetStateKey() string {
	return GetEnv("STATE_KEY", "auth.oauth_state")
}

func (Storage) GetStateDebugKey() string {
	return GetEnv("STATE_DEBUG_KEY", "auth.oauth_state_debug")
}

func (Storage) GetCodeVerifierKey() string {
	return GetEnv("CODE_VERIFIER_KEY", "auth.pkce_verifier")
}
