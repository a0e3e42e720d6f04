package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	Auth0Domain       string `env:"AUTH0_DOMAIN"`
	Auth0ClientID     string `env:"AUTH0_CLIENT_ID"`
	Auth0ClientSecret string `env:"AUTH0_CLIENT_SECRET"`
	Auth0CallbackURL  string `env:"AUTH0_CALLBACK_URL"`

	// Audience of the Management API client-credentials grant.
	// Defaults to https://{AUTH0_DOMAIN}/api/v2/.
	Auth0Audience string `env:"AUTH0_AUDIENCE"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// How long before expiry the cached management token is refreshed.
	TokenRefreshMargin time.Duration `env:"MGMT_TOKEN_REFRESH_MARGIN" envDefault:"60s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Auth0Audience == "" && cfg.Auth0Domain != "" {
		cfg.Auth0Audience = "https://" + cfg.Auth0Domain + "/api/v2/"
	}
	if cfg.Auth0CallbackURL == "" {
		cfg.Auth0CallbackURL = cfg.BaseURL + "/callback"
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Auth0Domain == "" {
		return errors.New("AUTH0_DOMAIN is required")
	}
	if c.Auth0ClientID == "" {
		return errors.New("AUTH0_CLIENT_ID is required")
	}
	if c.Auth0ClientSecret == "" {
		return errors.New("AUTH0_CLIENT_SECRET is required")
	}
	return nil
}
