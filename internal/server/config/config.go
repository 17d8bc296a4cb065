// Package config handles configuration for the authkeeper server: defaults,
// an optional JSON file, environment variables and command-line flags, applied
// in that order. A Config is built once at startup and never mutated afterwards.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDSN: postgres:// URL (pgx) or sqlite://path (modernc sqlite).
//   - SecretKey / SigningAlgorithm: HMAC key and JWT algorithm (HS256, HS384, HS512).
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - CORSOrigins: origins allowed to call the API from a browser.
//   - BcryptCost: work factor for password hashing.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP             string
	DatabaseDSN                  string
	SecretKey                    string
	SigningAlgorithm             string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	CORSOrigins                  []string
	BcryptCost                   int
	LogLevel                     string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside local development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.DatabaseDSN = "sqlite://./app.db"
	c.SecretKey = "your-secret-key-here-change-this-in-production"
	c.SigningAlgorithm = "HS256"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.CORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	c.BcryptCost = 12
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then overlays the JSON file named
// by -c/-config, then environment variables, then command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
