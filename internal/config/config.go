package config

type Config interface {
	ClientConfig
	EndpointConfig
	SecurityConfig
	StorageConfig
}

type mainConfig struct {
	Client
	Endpoints
	Security
	Storage
}

func New() Config {
	return mainConfig{}
}
