package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/fairplay-su/scdm-server/internal/flagx"
	"github.com/fairplay-su/scdm-server/internal/timex"
)

// JsonConfig is the DTO used for reading JSON configuration files. Interval
// fields use timex.Duration so both "24h" strings and integer nanoseconds
// parse. After unmarshalling, values are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	CORSAllowedOrigins    string         `json:"cors_allowed_origins"`
	GinMode               string         `json:"gin_mode"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into cfg. When neither flag is set, nothing is loaded.
// An unreadable file or invalid JSON panics: a config file that was asked
// for but cannot be used is a startup error.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	cfg.EndpointAddrHTTP = c.EndpointAddrHTTP
	cfg.DatabaseDSN = c.DatabaseDSN
	cfg.SecretKey = c.SecretKey
	cfg.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	cfg.CORSAllowedOrigins = c.CORSAllowedOrigins
	cfg.GinMode = c.GinMode
}
