package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type System struct {
	Port           string   `env:"PORT" envDefault:"3000"`
	GinMode        string   `env:"GIN_MODE" envDefault:"release"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"` // debug, info, warn, error
	LogDevelopment bool     `env:"LOG_DEVELOPMENT" envDefault:"false"`
	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:","`
}

type Database struct {
	Driver      string `env:"DB_DRIVER" envDefault:"mysql"` // mysql, postgres, sqlite
	URL         string `env:"DATABASE_URL"`
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        string `env:"DB_PORT"`
	User        string `env:"DB_USER"`
	Password    string `env:"DB_PASSWORD"`
	Name        string `env:"DB_NAME" envDefault:"registrobo"`
	SSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	Timezone    string `env:"DB_TIMEZONE" envDefault:"America/Sao_Paulo"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

type Auth struct {
	JWTSecret        string        `env:"JWT_SECRET_KEY"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET_KEY"`
	AccessTTL        time.Duration `env:"JWT_ACCESS_TTL" envDefault:"30m"`
	RefreshTTL       time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	SeedPath         string        `env:"OFFICERS_SEED_PATH"`
}

// Domain descreve quais hostnames podem servir a aplicação.
type Domain struct {
	Enforce       bool   `env:"DOMAIN_ENFORCE" envDefault:"true"`
	CanonicalHost string `env:"CANONICAL_HOST" envDefault:"registrobo.com.br"`
	PrivatePrefix string `env:"PRIVATE_NETWORK_PREFIX" envDefault:"192.168."`
	Scheme        string `env:"CANONICAL_SCHEME" envDefault:"https"`
}

type Scheduler struct {
	TokenPurgeSpec string `env:"TOKEN_PURGE_CRON" envDefault:"0 0 * * * *"`
}

type Metrics struct {
	Namespace string `env:"METRICS_NAMESPACE" envDefault:"registrobo"`
	Subsystem string `env:"METRICS_SUBSYSTEM" envDefault:"api"`
}

type Config struct {
	System    System
	Database  Database
	Auth      Auth
	Domain    Domain
	Scheduler Scheduler
	Metrics   Metrics
}

var (
	ErrMissingJWTSecret  = errors.New("JWT_SECRET_KEY is not set")
	ErrMissingJWTRefresh = errors.New("JWT_REFRESH_SECRET_KEY is not set")
	ErrSharedJWTSecret   = errors.New("JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY must differ")
)

// Load reads the optional .env files and parses the environment.
func Load(envFiles ...string) (*Config, error) {
	// .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.Auth.JWTRefreshSecret == "" {
		return ErrMissingJWTRefresh
	}
	if c.Auth.JWTSecret == c.Auth.JWTRefreshSecret {
		return ErrSharedJWTSecret
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	// gin.SetMode entra em pânico com valores desconhecidos
	switch c.System.GinMode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported GIN_MODE %q", c.System.GinMode)
	}
	return nil
}

func (s System) Addr() string {
	return ":" + s.Port
}

// DSN builds the driver specific connection string unless DATABASE_URL is set.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	switch d.Driver {
	case "postgres":
		port := d.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			d.Host, d.User, d.Password, d.Name, port, d.SSLMode, d.Timezone,
		)
	case "sqlite":
		return d.Name + ".db"
	default:
		port := d.Port
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, port, d.Name,
		)
	}
}
