package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig mirrors Config with pointer fields so that only variables
// actually present in the environment overlay the current values.
type envConfig struct {
	EndpointAddrHTTP      *string        `env:"ADDRESS"`
	DatabaseDSN           *string        `env:"DATABASE_DSN"`
	SecretKey             *string        `env:"SECRET_KEY"`
	TokenValidityDuration *time.Duration `env:"TOKEN_VALIDITY_DURATION"`
	CORSAllowedOrigins    *string        `env:"CORS_ALLOWED_ORIGINS"`
	GinMode               *string        `env:"GIN_MODE"`
}

// parseEnv overlays cfg with values from the process environment. A .env
// file in the working directory is read first when present, so local runs
// do not need to export anything.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	e := &envConfig{}
	if err := env.Parse(e); err != nil {
		panic(err)
	}

	if e.EndpointAddrHTTP != nil {
		cfg.EndpointAddrHTTP = *e.EndpointAddrHTTP
	}
	if e.DatabaseDSN != nil {
		cfg.DatabaseDSN = *e.DatabaseDSN
	}
	if e.SecretKey != nil {
		cfg.SecretKey = *e.SecretKey
	}
	if e.TokenValidityDuration != nil {
		cfg.TokenValidityDuration = *e.TokenValidityDuration
	}
	if e.CORSAllowedOrigins != nil {
		cfg.CORSAllowedOrigins = *e.CORSAllowedOrigins
	}
	if e.GinMode != nil {
		cfg.GinMode = *e.GinMode
	}
}
