package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/Veraticus/kahvi/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds the Postgres connection settings of the API server.
type DatabaseConfig struct {
	URL      string
	Host     string
	Name     string
	User     string
	Password string
	Port     int
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// LoadDatabaseConfig loads the database settings with this precedence:
// 1. Viper configuration (database.* keys or KAHVI_DATABASE_* env vars)
// 2. Direct environment variables (DATABASE_URL, DB_HOST, DB_PORT, ...)
// 3. Default values
func LoadDatabaseConfig(v *viper.Viper) (*DatabaseConfig, error) {
	cfg := DatabaseConfig{Port: 5432}

	cfg.URL = firstNonEmpty(v.GetString("database.url"), os.Getenv("DATABASE_URL"))
	cfg.Host = firstNonEmpty(v.GetString("database.host"), os.Getenv("DB_HOST"))
	cfg.Name = firstNonEmpty(v.GetString("database.name"), os.Getenv("DB_NAME"))
	cfg.User = firstNonEmpty(v.GetString("database.user"), os.Getenv("DB_USER"))
	cfg.Password = firstNonEmpty(v.GetString("database.password"), os.Getenv("DB_PASSWORD"))

	if port := firstNonEmpty(v.GetString("database.port"), os.Getenv("DB_PORT")); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 || p > 65535 {
			return nil, fmt.Errorf("%w: invalid database port %q", common.ErrInvalidConfig, port)
		}
		cfg.Port = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures either a URL or a host and database name are present.
func (c DatabaseConfig) Validate() error {
	if c.URL != "" {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("%w: DB_HOST or DATABASE_URL is required", common.ErrMissingConfig)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: DB_NAME is required", common.ErrMissingConfig)
	}
	return nil
}

// ConnString returns a postgres:// connection string.
func (c DatabaseConfig) ConnString() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}
	return u.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
