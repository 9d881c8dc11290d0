package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process-wide configuration, read once at startup. Missing
// required values fail fast instead of surfacing as confusing provider
// errors mid-flow.
type Config struct {
	Addr           string `env:"SERVER_ADDR" envDefault:"0.0.0.0:8080"`
	BackendBaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8080"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,notEmpty"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,notEmpty"`
	RedirectURI        string `env:"REDIRECT_URI,notEmpty"`

	DB DB
}

// DB is the postgres connection configuration, loadable on its own for
// tooling that never talks to the provider.
type DB struct {
	Name     string `env:"POSTGRES_DB,notEmpty"`
	User     string `env:"POSTGRES_USER,notEmpty"`
	Password string `env:"POSTGRES_PASSWORD,notEmpty"`
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func LoadDB() (*DB, error) {
	cfg := &DB{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// URL builds the postgres connection string.
func (d *DB) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}
