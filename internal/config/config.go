package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the runtime configuration of the service.
type Config struct {
	AppPort        string        `validate:"required"`
	DatabaseDriver string        `validate:"oneof=postgres sqlite"`
	DatabaseDSN    string        `validate:"required"`
	JWTSecret      string        `validate:"required"`
	RabbitMQURL    string        // empty disables messaging
	StoreTimeout   time.Duration `validate:"gt=0"`
	CacheTTL       time.Duration `validate:"gte=0"`
	LogLevel       string        `validate:"oneof=debug info warn error"`
	LogEncoding    string        `validate:"oneof=json console"`

	AdminUsername string
	AdminEmail    string `validate:"omitempty,email"`
	AdminPassword string
}

// SetDefaults registers the default of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=roti port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "json")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@roti.local")
	v.SetDefault("ADMIN_PASSWORD", "")
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the configuration from v, falling back to environment
// variables and defaults, and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		StoreTimeout:   v.GetDuration("STORE_TIMEOUT"),
		CacheTTL:       v.GetDuration("CACHE_TTL"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogEncoding:    v.GetString("LOG_ENCODING"),
		AdminUsername:  v.GetString("ADMIN_USERNAME"),
		AdminEmail:     v.GetString("ADMIN_EMAIL"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
