// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/pkg/utilities"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultPort      = 8080
	defaultExpiresIn = "7d"
)

// ErrMissingJWTSecret is returned by Load when JWT_SECRET is unset.
var ErrMissingJWTSecret = errors.New("JWT_SECRET nao configurado")

type Config struct {
	Port         int
	Env          string
	JWTSecret    string
	JWTExpiresIn string
	CORSOrigins  []string
	Database     database.Config
	Log          utilities.Config
}

// Production reports whether internal error details must stay hidden.
func (c Config) Production() bool { return c.Env == EnvProduction }

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

// Load builds a Config from the environment. Call godotenv.Load first if a
// .env file should be honoured.
func Load() (Config, error) {
	cfg := Config{
		Port:         defaultPort,
		Env:          strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTExpiresIn: strings.TrimSpace(os.Getenv("JWT_EXPIRES_IN")),
		CORSOrigins:  splitList(os.Getenv("CORS_ORIGINS")),
		Database:     database.ConfigFromEnv(),
		Log:          utilities.ConfigFromEnv(),
	}
	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}
	if cfg.JWTExpiresIn == "" {
		cfg.JWTExpiresIn = defaultExpiresIn
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 || n > 65535 {
			return Config{}, errors.New("PORT invalido: " + p)
		}
		cfg.Port = n
	}
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
