package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name       string `envconfig:"APP_NAME" default:"Stockroom"`
		Port       int    `envconfig:"PORT" default:"8080"`
		HealthPath string `envconfig:"HEALTH_PATH" default:"/health"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	}

	Log struct {
		Format string `envconfig:"LOG_FORMAT" default:"text"`
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
	}

	Auth struct {
		Secret    string        `envconfig:"AUTH_SECRET" default:"stockroom-dev-secret"`
		TokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"12h"`
		RateLimit int           `envconfig:"AUTH_RATE_LIMIT" default:"20"`
	}

	Ledger struct {
		Seed           bool          `envconfig:"LEDGER_SEED" default:"true"`
		UpcomingWindow time.Duration `envconfig:"LEDGER_UPCOMING_WINDOW" default:"168h"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
}

// Addr is the listen address derived from the port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
