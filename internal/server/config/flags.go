package config

import (
	"flag"
	"os"
	"time"

	"github.com/fairplay-su/scdm-server/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-o string   comma-separated CORS allowed origins
//	-m string   gin mode (debug, release, test)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integer minutes and converted to time.Duration.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-o", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddrHTTP, "a", cfg.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(cfg.TokenValidityDuration.Minutes()), "token validity (in minutes)")

	fs.StringVar(&cfg.CORSAllowedOrigins, "o", cfg.CORSAllowedOrigins, "CORS allowed origins (comma-separated)")
	fs.StringVar(&cfg.GinMode, "m", cfg.GinMode, "gin mode")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
}
