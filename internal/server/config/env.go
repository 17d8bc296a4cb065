package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors the variable names of the settings file format used by
// earlier deployments. Token lifetimes are given in minutes.
type envConfig struct {
	EndpointAddrHTTP          string      `env:"HTTP_ADDRESS"`
	DatabaseDSN               string      `env:"DATABASE_URL"`
	SecretKey                 string      `env:"SECRET_KEY"`
	SigningAlgorithm          string      `env:"ALGORITHM"`
	AccessTokenExpireMinutes  int         `env:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	RefreshTokenExpireMinutes int         `env:"REFRESH_TOKEN_EXPIRE_MINUTES"`
	CORSOrigins               originList  `env:"CORS_ORIGINS"`
	BcryptCost                int         `env:"BCRYPT_COST"`
	LogLevel                  string      `env:"LOG_LEVEL"`
}

// originList accepts either a JSON array (`["http://a","http://b"]`) or a
// comma-separated list.
type originList []string

func (o *originList) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))

	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return fmt.Errorf("CORS_ORIGINS: %w", err)
		}
		*o = trimOrigins(list)
		return nil
	}

	*o = trimOrigins(strings.Split(raw, ","))
	return nil
}

func trimOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseEnv overlays environment variables. Unset variables leave the current
// values untouched, so the struct is seeded from config first.
func parseEnv(config *Config) error {
	e := envConfig{
		EndpointAddrHTTP:          config.EndpointAddrHTTP,
		DatabaseDSN:               config.DatabaseDSN,
		SecretKey:                 config.SecretKey,
		SigningAlgorithm:          config.SigningAlgorithm,
		AccessTokenExpireMinutes:  int(config.AccessTokenValidityDuration / time.Minute),
		RefreshTokenExpireMinutes: int(config.RefreshTokenValidityDuration / time.Minute),
		CORSOrigins:               originList(config.CORSOrigins),
		BcryptCost:                config.BcryptCost,
		LogLevel:                  config.LogLevel,
	}

	opts := env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(originList{}): func(v string) (any, error) {
				var o originList
				err := o.UnmarshalText([]byte(v))
				return o, err
			},
		},
	}

	if err := env.ParseWithOptions(&e, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	config.EndpointAddrHTTP = e.EndpointAddrHTTP
	config.DatabaseDSN = e.DatabaseDSN
	config.SecretKey = e.SecretKey
	config.SigningAlgorithm = e.SigningAlgorithm
	config.CORSOrigins = []string(e.CORSOrigins)
	config.BcryptCost = e.BcryptCost
	config.LogLevel = e.LogLevel

	// Only replace lifetimes that actually changed, to keep sub-minute precision
	// coming from the JSON file.
	if e.AccessTokenExpireMinutes != int(config.AccessTokenValidityDuration/time.Minute) {
		config.AccessTokenValidityDuration = time.Duration(e.AccessTokenExpireMinutes) * time.Minute
	}
	if e.RefreshTokenExpireMinutes != int(config.RefreshTokenValidityDuration/time.Minute) {
		config.RefreshTokenValidityDuration = time.Duration(e.RefreshTokenExpireMinutes) * time.Minute
	}
	return nil
}
