package config

type Config interface {
	EnvConfig
	SessionConfig
}

type EnvConfig interface {
	GetBaseURL() string
	GetAppName() string
	GetStorageDir() string
	GetListenAddr() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Session
}

func New() Config {
	return mainConfig{}
}
