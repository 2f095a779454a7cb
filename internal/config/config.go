package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "VITRINA"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App     AppConfig
	Session SessionConfig
	DB      DBConfig
	Redis   RedisConfig
	Catalog CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env               string `envconfig:"VITRINA_APP_ENV" default:"development"`
	Port              string `envconfig:"VITRINA_PORT" default:"8080"`
	LogLevel          string `envconfig:"VITRINA_LOG_LEVEL" default:"info"`
	LogFormat         string `envconfig:"VITRINA_LOG_FORMAT" default:"console"`
	DefaultStorefront string `envconfig:"VITRINA_DEFAULT_STOREFRONT" default:"sneakers"`
	TemplatesDir      string `envconfig:"VITRINA_TEMPLATES_DIR"`
}

func (a AppConfig) IsDev() bool {
	return a.Env == "" || strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "dev")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "prod")
}

type SessionConfig struct {
	Key string        `envconfig:"VITRINA_SESSION_KEY" default:"dev-insecure"`
	TTL time.Duration `envconfig:"VITRINA_SESSION_TTL" default:"24h"`
}

type DBConfig struct {
	Driver string `envconfig:"VITRINA_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"VITRINA_DB_DSN"`

	Host     string `envconfig:"VITRINA_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"VITRINA_DB_PORT" default:"5432"`
	User     string `envconfig:"VITRINA_DB_USER" default:"postgres"`
	Password string `envconfig:"VITRINA_DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"VITRINA_DB_NAME" default:"vitrina"`
	SSLMode  string `envconfig:"VITRINA_DB_SSLMODE" default:"disable"`
}

func (d *DBConfig) ensureDSN() error {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	switch d.Driver {
	case DriverSQLite:
		if strings.TrimSpace(d.DSN) == "" {
			d.DSN = "file:vitrina.db?cache=shared"
		}
	case DriverPostgres:
		if strings.TrimSpace(d.DSN) == "" {
			d.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
				d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
		}
	default:
		return fmt.Errorf("unsupported db driver %q", d.Driver)
	}
	return nil
}

type RedisConfig struct {
	URL    string `envconfig:"VITRINA_REDIS_URL"`
	Prefix string `envconfig:"VITRINA_REDIS_PREFIX" default:"vitrina"`
}

func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.URL) != "" }

type CatalogConfig struct {
	XLSXPath string `envconfig:"VITRINA_CATALOG_XLSX"`
}
