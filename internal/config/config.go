package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Identity     IdentityConfig
	Security     SecurityConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// IdentityConfig points at the hosted identity provider. AnonKey is the
// restricted client-usable key; ServiceRoleKey is the privileged key used only
// server-side for admin operations and must never reach a browser bundle.
type IdentityConfig struct {
	BaseURL        string
	AnonKey        string
	ServiceRoleKey string
	JWTSecret      string
	TimeoutSeconds int
	RoleCacheTTL   int
}

// SecurityConfig controls CSRF protection and API rate limiting.
type SecurityConfig struct {
	CSRFEnabled        bool
	CSRFCookieName     string
	RateLimitPerMinute int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "property-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Identity: IdentityConfig{
			BaseURL:        getEnv("IDENTITY_BASE_URL", ""),
			AnonKey:        os.Getenv("IDENTITY_ANON_KEY"),
			ServiceRoleKey: os.Getenv("IDENTITY_SERVICE_ROLE_KEY"),
			JWTSecret:      os.Getenv("IDENTITY_JWT_SECRET"),
			TimeoutSeconds: getEnvAsInt("IDENTITY_TIMEOUT_SECONDS", 10),
			RoleCacheTTL:   getEnvAsInt("IDENTITY_ROLE_CACHE_TTL_SECONDS", 300),
		},
		Security: SecurityConfig{
			CSRFEnabled:        getEnvAsBool("SECURITY_CSRF_ENABLED", true),
			CSRFCookieName:     getEnv("SECURITY_CSRF_COOKIE_NAME", "csrf_token"),
			RateLimitPerMinute: getEnvAsInt("SECURITY_RATE_LIMIT_PER_MINUTE", 120),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	if cfg.Identity.BaseURL == "" && cfg.Identity.JWTSecret == "" {
		return nil, fmt.Errorf("either IDENTITY_BASE_URL or IDENTITY_JWT_SECRET must be set")
	}

	return cfg, nil
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

// IsProduction reports whether the service runs in a production environment.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// Timeout bounds every outbound call to the identity provider.
func (i IdentityConfig) Timeout() time.Duration {
	if i.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(i.TimeoutSeconds) * time.Second
}

// CacheTTL is how long resolved roles stay cached.
func (i IdentityConfig) CacheTTL() time.Duration {
	if i.RoleCacheTTL <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(i.RoleCacheTTL) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
