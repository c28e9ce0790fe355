// Package config loads environment-driven configuration. A .env file in the
// working directory is read first when present; real environment variables win.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type HTTPConfig struct {
	Addr       string
	CORSOrigin string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string

	// URL overrides the discrete fields when set.
	URL string
}

type NATSConfig struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

type AuthConfig struct {
	JWTSecret []byte
	AccessTTL time.Duration
}

type AppConfig struct {
	ServiceName string
	LogLevel    string
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	NATS        NATSConfig
	Auth        AuthConfig
}

// DSN returns the postgres connection string. DATABASE_URL is used verbatim
// when set; otherwise a local-friendly DSN is composed from the discrete
// fields.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(p.User), url.QueryEscape(p.Password), p.Host, p.Port, p.Database)
}

// LoadPostgres loads only the database settings; tools that never touch
// tokens (the migrator) use this to avoid requiring JWT_SECRET.
func LoadPostgres() PostgresConfig {
	_ = godotenv.Load()
	return PostgresConfig{
		Host:     envStr("PG_HOST", "localhost"),
		Port:     envInt("PG_PORT", 5432),
		User:     envStr("PG_USER", "postgres"),
		Password: envStr("PG_PASSWORD", "postgres"),
		Database: envStr("PG_DATABASE", "todos"),
		URL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
	}
}

func Load() (AppConfig, error) {
	// Best-effort; absent .env is the normal case in containers.
	_ = godotenv.Load()

	cfg := AppConfig{
		ServiceName: envStr("SERVICE_NAME", "todo-backend"),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Addr:       strings.TrimSpace(os.Getenv("HTTP_ADDR")),
			CORSOrigin: envStr("CORS_ORIGIN", "*"),
		},
		Postgres: LoadPostgres(),
		NATS: NATSConfig{
			URL:           envStr("NATS_URL", "nats://localhost:4222"),
			MaxReconnects: envInt("NATS_MAX_RECONNECTS", 5),
			ReconnectWait: envDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: []byte(strings.TrimSpace(os.Getenv("JWT_SECRET"))),
			AccessTTL: envDuration("JWT_ACCESS_TTL", 24*time.Hour),
		},
	}

	if cfg.HTTP.Addr == "" {
		host := envStr("HOST", "0.0.0.0")
		port := envInt("PORT", 4000)
		cfg.HTTP.Addr = fmt.Sprintf("%s:%d", host, port)
	}
	if len(cfg.Auth.JWTSecret) == 0 {
		return AppConfig{}, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func envStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
