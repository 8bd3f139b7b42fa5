package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	portVar           = "PORT"
	jwtSecretVar      = "JWT_SECRET"
	accessTokenTTLVar = "ACCESS_TOKEN_TTL"
	seedDataVar       = "SEED_DATA"
)

// Server holds settings for the development API server.
type Server struct {
	src source
}

var _ ServerConfig = Server{}

func (s Server) GetPort() string {
	port := s.src.get(portVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (s Server) GetJWTSecret() string {
	return s.src.get(jwtSecretVar, "dev-secret-change-me")
}

func (s Server) GetAccessTokenTTL() time.Duration {
	return s.src.duration(accessTokenTTLVar, 1*time.Hour)
}

func (s Server) GetSeedData() bool {
	return s.src.boolean(seedDataVar, true)
}
