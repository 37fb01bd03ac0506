package config

type SecurityConfig interface {
	GetPKCEEnabled() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetPKCEEnabled reports whether login attempts carry a PKCE
// code challenge. When disabled the client authenticates with its
// secret at the token endpoint instead.
func (Security) GetPKCEEnabled() bool {
	return GetEnv("PKCE_ENABLED", "true") != "false"
}
