package config

import "time"

type Config interface {
	EnvConfig
	SessionConfig
	ListConfig
	ServerConfig
	CorsConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetAPIURL() string
	GetLogLevel() string
	GetLogFile() string
	GetTokenStore() string
	GetTokenFile() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisKey() string
}

type SessionConfig interface {
	GetRefreshLeadTime() time.Duration
}

type ListConfig interface {
	GetListDebounce() time.Duration
	GetDefaultPerPage() int
}

type ServerConfig interface {
	GetPort() string
	GetJWTSecret() string
	GetAccessTokenTTL() time.Duration
	GetSeedData() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Session
	List
	Server
	Cors
}

// New returns a Config backed by environment variables only.
func New() Config {
	return newWithSource(source{})
}

func newWithSource(src source) Config {
	return mainConfig{
		EnvVars: EnvVars{src},
		Session: Session{src},
		List:    List{src},
		Server:  Server{src},
		Cors:    Cors{src},
	}
}
