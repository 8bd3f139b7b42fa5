package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML form of the settings. Environment variables take
// precedence over anything set here.
type FileConfig struct {
	AppName         string `yaml:"app_name"`
	Env             string `yaml:"env"`
	APIURL          string `yaml:"api_url"`
	LogLevel        string `yaml:"log_level"`
	LogFile         string `yaml:"log_file"`
	TokenStore      string `yaml:"token_store"`
	TokenFile       string `yaml:"token_file"`
	RedisAddr       string `yaml:"redis_addr"`
	RedisPassword   string `yaml:"redis_password"`
	RedisKey        string `yaml:"redis_key"`
	RefreshLeadTime string `yaml:"refresh_lead_time"`
	ListDebounce    string `yaml:"list_debounce"`
	DefaultPerPage  string `yaml:"default_per_page"`
	Port            string `yaml:"port"`
	JWTSecret       string `yaml:"jwt_secret"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	SeedData        string `yaml:"seed_data"`
	AllowedOrigins  string `yaml:"allowed_origins"`
}

// Load returns the env-only Config when path is empty, otherwise a Config
// layered over the YAML file at path.
func Load(path string) (Config, error) {
	if path == "" {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes.
func Parse(data []byte) (Config, error) {
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config.Parse: %w", err)
	}
	return newWithSource(source{overrides: fc.values()}), nil
}

func (fc FileConfig) values() map[string]string {
	return map[string]string{
		appNameVar:         fc.AppName,
		envVar:             fc.Env,
		apiURLVar:          fc.APIURL,
		logLevelVar:        fc.LogLevel,
		logFileVar:         fc.LogFile,
		tokenStoreVar:      fc.TokenStore,
		tokenFileVar:       fc.TokenFile,
		redisAddrVar:       fc.RedisAddr,
		redisPasswordVar:   fc.RedisPassword,
		redisKeyVar:        fc.RedisKey,
		refreshLeadTimeVar: fc.RefreshLeadTime,
		listDebounceVar:    fc.ListDebounce,
		defaultPerPageVar:  fc.DefaultPerPage,
		portVar:            fc.Port,
		jwtSecretVar:       fc.JWTSecret,
		accessTokenTTLVar:  fc.AccessTokenTTL,
		seedDataVar:        fc.SeedData,
		allowedOriginsVar:  fc.AllowedOrigins,
	}
}
