package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Name string
	Env  string
	Port string
}

type LogConfig struct {
	Level  string
	Format string
}

type DBConfig struct {
	// Vacío => repos in-memory (modo dev).
	DSN             string
	AutoMigrate     bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	// Vacío => modo dev con headers X-Debug-*.
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

type RedisConfig struct {
	URL               string
	NotificationQueue string
}

type NotifyConfig struct {
	// log | webhook | redis
	Driver        string
	WebhookURL    string
	WebhookSecret string
	Timeout       time.Duration
}

type TracingConfig struct {
	// Vacío => tracing deshabilitado.
	Endpoint    string
	ServiceName string
}

type ExpiryConfig struct {
	SweepInterval time.Duration
}

type Config struct {
	App     AppConfig
	Log     LogConfig
	DB      DBConfig
	Auth    AuthConfig
	Redis   RedisConfig
	Notify  NotifyConfig
	Tracing TracingConfig
	Expiry  ExpiryConfig
}

// Load lee .env (si existe) y luego el entorno. Las variables del entorno
// tienen prioridad porque godotenv no pisa valores ya definidos.
func Load() (*Config, error) {
	_ = godotenv.Load()

	appName := getEnv("APP_NAME", "pet-grooming-manager")

	cfg := &Config{
		App: AppConfig{
			Name: appName,
			Env:  getEnv("APP_ENV", "development"),
			Port: getEnv("PORT", "8080"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", appName),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 12*time.Hour),
		},
		Redis: RedisConfig{
			URL:               getEnv("REDIS_URL", ""),
			NotificationQueue: getEnv("REDIS_NOTIFICATION_QUEUE", "notifications:outbox"),
		},
		Notify: NotifyConfig{
			Driver:        strings.ToLower(getEnv("NOTIFY_DRIVER", "log")),
			WebhookURL:    getEnv("NOTIFY_WEBHOOK_URL", ""),
			WebhookSecret: getEnv("NOTIFY_WEBHOOK_SECRET", ""),
			Timeout:       getEnvAsDuration("NOTIFY_TIMEOUT", 5*time.Second),
		},
		Tracing: TracingConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName: getEnv("OTEL_SERVICE_NAME", appName),
		},
		Expiry: ExpiryConfig{
			SweepInterval: getEnvAsDuration("EXPIRY_SWEEP_INTERVAL", time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Notify.Driver {
	case "log":
	case "webhook":
		if strings.TrimSpace(c.Notify.WebhookURL) == "" {
			return errors.New("config: NOTIFY_WEBHOOK_URL required when NOTIFY_DRIVER=webhook")
		}
	case "redis":
		if strings.TrimSpace(c.Redis.URL) == "" {
			return errors.New("config: REDIS_URL required when NOTIFY_DRIVER=redis")
		}
	default:
		return fmt.Errorf("config: unknown NOTIFY_DRIVER %q", c.Notify.Driver)
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 16 {
		return errors.New("config: JWT_SECRET must be at least 16 characters")
	}
	if c.Expiry.SweepInterval <= 0 {
		return errors.New("config: EXPIRY_SWEEP_INTERVAL must be positive")
	}
	return nil
}

// DevMode indica que no hay verificación de tokens.
func (c *Config) DevMode() bool {
	return strings.TrimSpace(c.Auth.JWTSecret) == ""
}

func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvAsBool(key string, defaultValue bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}
