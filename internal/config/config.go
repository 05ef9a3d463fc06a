package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig          `toml:"app"`
	Postgres     PostgresConfig     `toml:"postgres"`
	Redis        RedisConfig        `toml:"redis"`
	Logger       LoggerConfig       `toml:"logger"`
	Auth         AuthConfig         `toml:"auth"`
	Notification NotificationConfig `toml:"notification"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `toml:"name"`
	Env                   string `toml:"env"`
	Host                  string `toml:"host"`
	Port                  string `toml:"port"`
	Version               string `toml:"version"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `toml:"dsn"`
	MaxConns       int32  `toml:"max_conns"`
	MinConns       int32  `toml:"min_conns"`
	RunMigrations  bool   `toml:"run_migrations"`
	ConnMaxIdleSec int32  `toml:"conn_max_idle_seconds"`
	ConnMaxLifeSec int32  `toml:"conn_max_life_seconds"`
	// ConnectAttempts bounds startup retries while the database comes up.
	ConnectAttempts int `toml:"connect_attempts"`
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `toml:"level"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string `toml:"jwt_secret"`
	AccessTokenTTLMinutes int    `toml:"access_token_ttl_minutes"`
	BcryptCost            int    `toml:"bcrypt_cost"`
	AdminEmail            string `toml:"admin_email"`
	AdminPassword         string `toml:"admin_password"`
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string `toml:"email_from"`
	WebhookURL string `toml:"webhook_url"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		App: AppConfig{
			Name:                  "event-reservation-service",
			Env:                   "development",
			Host:                  "0.0.0.0",
			Port:                  "3000",
			Version:               "dev",
			RequestTimeoutSeconds: 30,
		},
		Postgres: PostgresConfig{
			MaxConns:        10,
			MinConns:        2,
			RunMigrations:   true,
			ConnMaxIdleSec:  30,
			ConnMaxLifeSec:  300,
			ConnectAttempts: 5,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			JWTSecret:             "dev-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            12,
		},
		Notification: NotificationConfig{
			EmailFrom: "noreply@example.com",
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file named by
// APP_CONFIG_FILE and environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("APP_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.App.Name, "APP_NAME")
	setString(&cfg.App.Env, "APP_ENV")
	setString(&cfg.App.Host, "APP_HOST")
	setString(&cfg.App.Port, "APP_PORT")
	setString(&cfg.App.Version, "APP_VERSION")
	setInt(&cfg.App.RequestTimeoutSeconds, "HTTP_REQUEST_TIMEOUT_SECONDS")

	setString(&cfg.Postgres.DSN, "POSTGRES_DSN")
	setInt32(&cfg.Postgres.MaxConns, "POSTGRES_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "POSTGRES_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "POSTGRES_RUN_MIGRATIONS")
	setInt32(&cfg.Postgres.ConnMaxIdleSec, "POSTGRES_CONN_MAX_IDLE_SECONDS")
	setInt32(&cfg.Postgres.ConnMaxLifeSec, "POSTGRES_CONN_MAX_LIFE_SECONDS")
	setInt(&cfg.Postgres.ConnectAttempts, "POSTGRES_CONNECT_ATTEMPTS")

	if val, ok := os.LookupEnv("REDIS_ADDR"); ok {
		cfg.Redis.Addr = val
	}
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if val := os.Getenv("REDIS_DB"); val != "" {
		db, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.Redis.DB = db
	}

	setString(&cfg.Logger.Level, "LOG_LEVEL")

	setString(&cfg.Auth.JWTSecret, "AUTH_JWT_SECRET")
	setInt(&cfg.Auth.AccessTokenTTLMinutes, "AUTH_ACCESS_TOKEN_TTL_MINUTES")
	setInt(&cfg.Auth.BcryptCost, "AUTH_BCRYPT_COST")
	setString(&cfg.Auth.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.Auth.AdminPassword, "ADMIN_PASSWORD")

	setString(&cfg.Notification.EmailFrom, "NOTIFY_EMAIL_FROM")
	setString(&cfg.Notification.WebhookURL, "NOTIFY_WEBHOOK_URL")
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the lifetime of issued access tokens.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	val := os.Getenv(key)
	if val == "" {
		return
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return
	}
	*dst = parsed
}

func setInt32(dst *int32, key string) {
	val := os.Getenv(key)
	if val == "" {
		return
	}
	parsed, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return
	}
	*dst = int32(parsed)
}

func setBool(dst *bool, key string) {
	val := os.Getenv(key)
	if val == "" {
		return
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return
	}
	*dst = parsed
}
