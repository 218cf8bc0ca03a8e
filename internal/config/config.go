// Package config loads service configuration from the environment, with an
// optional .env file read first.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-animal-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-animal-go/pkg/utilities"
)

type Config struct {
	HTTPAddr           string        `env:"HTTP_ADDR" envDefault:"0.0.0.0"`
	Port               int           `env:"PORT" envDefault:"8080"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	SecretHashCost     int           `env:"SECRET_HASH_COST" envDefault:"10"`
	// AuthCacheTTL enables the bearer token lookup cache when positive.
	AuthCacheTTL  time.Duration `env:"AUTH_CACHE_TTL" envDefault:"0s"`
	SnowflakeNode int64         `env:"SNOWFLAKE_NODE" envDefault:"1"`

	Database database.Config  `envPrefix:"DATABASE_"`
	Log      utilities.Config `envPrefix:"LOG_"`
}

// Load reads the given .env files (".env" when none are given) into the
// process environment without overriding variables that are already set,
// then parses Config. Missing .env files are not an error.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if c.SecretHashCost < bcrypt.MinCost || c.SecretHashCost > bcrypt.MaxCost {
		return fmt.Errorf("SECRET_HASH_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.Database.Driver {
	case database.DriverPostgres, database.DriverSQLite:
	default:
		return fmt.Errorf("DATABASE_DRIVER %q is not supported", c.Database.Driver)
	}
	return nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.HTTPAddr, strconv.Itoa(c.Port))
}
