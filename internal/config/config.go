package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the sales API.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Uploads  UploadsConfig  `yaml:"uploads"`
}

// AppConfig carries behavior switches.
type AppConfig struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`

	// DemoFallback makes read endpoints answer with canned data when the store fails.
	DemoFallback bool `yaml:"demo_fallback"`

	// EnforceInvoiceTotals rejects invoices whose header totals differ from the item sums.
	EnforceInvoiceTotals bool `yaml:"enforce_invoice_totals"`

	MigrateOnStart bool `yaml:"migrate_on_start"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig configures the store connection pool.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // postgres, sqlite
	DSN             string        `yaml:"dsn"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// AuthConfig configures token signing and the seeded user.
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	RequireAuth   bool          `yaml:"require_auth"`
	AdminUsername string        `yaml:"admin_username"`
	AdminPassword string        `yaml:"admin_password"`
}

// UploadsConfig configures product image storage.
type UploadsConfig struct {
	Dir      string `yaml:"dir"`
	MaxBytes int64  `yaml:"max_bytes"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.App.Env == "development"
}

// IsProduction reports whether the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		App: AppConfig{
			Env:            "development",
			LogLevel:       "info",
			MigrateOnStart: true,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        "3000",
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			DSN:             "host=localhost user=postgres password=postgres dbname=sales_management port=5432 sslmode=disable",
			Name:            "sales_management",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL:      24 * time.Hour,
			AdminUsername: "admin",
		},
		Uploads: UploadsConfig{
			Dir:      "uploads",
			MaxBytes: 5 << 20,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by CONFIG_FILE
// (if any), then environment variables.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.App.Env = getEnv("APP_ENV", c.App.Env)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.App.DemoFallback = parseBool("DEMO_FALLBACK", c.App.DemoFallback)
	c.App.EnforceInvoiceTotals = parseBool("ENFORCE_INVOICE_TOTALS", c.App.EnforceInvoiceTotals)
	c.App.MigrateOnStart = parseBool("MIGRATE_ON_START", c.App.MigrateOnStart)

	c.Server.Host = getEnv("HOST", c.Server.Host)
	c.Server.Port = getEnv("PORT", c.Server.Port)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("DATABASE_DSN", c.Database.DSN)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.MaxOpenConns = parseInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = parseInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetime = parseDuration("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = parseDuration("TOKEN_TTL", c.Auth.TokenTTL)
	c.Auth.RequireAuth = parseBool("REQUIRE_AUTH", c.Auth.RequireAuth)
	c.Auth.AdminUsername = getEnv("ADMIN_USERNAME", c.Auth.AdminUsername)
	c.Auth.AdminPassword = getEnv("ADMIN_PASSWORD", c.Auth.AdminPassword)

	c.Uploads.Dir = getEnv("UPLOAD_DIR", c.Uploads.Dir)
	c.Uploads.MaxBytes = int64(parseInt("MAX_UPLOAD_BYTES", int(c.Uploads.MaxBytes)))
}

// devJWTSecret is only ever used when APP_ENV=development and no secret is configured.
const devJWTSecret = "dev-only-jwt-secret"

// Validate checks the settings and fills development-only defaults.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		if !c.IsDev() {
			return errors.New("JWT_SECRET is required outside development")
		}
		c.Auth.JWTSecret = devJWTSecret
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Uploads.MaxBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	return def
}

func parseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return def
		}
		return n
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return def
		}
		return d
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
