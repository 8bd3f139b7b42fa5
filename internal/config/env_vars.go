package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	appNameVar       = "APP_NAME"
	envVar           = "ENV"
	apiURLVar        = "API_URL"
	logLevelVar      = "LOG_LEVEL"
	logFileVar       = "LOG_FILE"
	tokenStoreVar    = "TOKEN_STORE"
	tokenFileVar     = "TOKEN_FILE"
	redisAddrVar     = "REDIS_ADDR"
	redisPasswordVar = "REDIS_PASSWORD"
	redisKeyVar      = "REDIS_KEY"
)

// Token store kinds accepted by TOKEN_STORE.
const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

// source resolves a setting from the environment first, then from values
// loaded out of a config file.
type source struct {
	overrides map[string]string
}

func (s source) get(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	if value, ok := s.overrides[name]; ok && value != "" {
		return value
	}
	return defaultValue
}

func (s source) duration(name string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s.get(name, ""))
	if err != nil {
		return defaultValue
	}
	return d
}

func (s source) integer(name string, defaultValue int) int {
	n, err := strconv.Atoi(s.get(name, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func (s source) boolean(name string, defaultValue bool) bool {
	b, err := strconv.ParseBool(s.get(name, ""))
	if err != nil {
		return defaultValue
	}
	return b
}

type EnvVars struct {
	src source
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.src.get(appNameVar, "Go Dashboard")
}

func (e EnvVars) GetEnv() string {
	return e.src.get(envVar, "DEV")
}

// GetAPIURL returns the base URL of the REST API (e.g., "https://api.example.com/api")
func (e EnvVars) GetAPIURL() string {
	return e.src.get(apiURLVar, "http://localhost:8080")
}

func (e EnvVars) GetLogLevel() string {
	return e.src.get(logLevelVar, "info")
}

// GetLogFile is where logs go while the terminal UI owns the screen. Empty
// disables logging in that mode.
func (e EnvVars) GetLogFile() string {
	return e.src.get(logFileVar, "")
}

func (e EnvVars) GetTokenStore() string {
	return e.src.get(tokenStoreVar, TokenStoreFile)
}

func (e EnvVars) GetTokenFile() string {
	return e.src.get(tokenFileVar, defaultTokenFile())
}

func (e EnvVars) GetRedisAddr() string {
	return e.src.get(redisAddrVar, "localhost:6379")
}

func (e EnvVars) GetRedisPassword() string {
	return e.src.get(redisPasswordVar, "")
}

func (e EnvVars) GetRedisKey() string {
	return e.src.get(redisKeyVar, "dashboard:token")
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".dashboard", "token.json")
	}
	return filepath.Join(dir, "go-dashboard", "token.json")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
