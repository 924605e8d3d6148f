package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultExcludePattern skips the API namespace, framework assets and the favicon.
const DefaultExcludePattern = `^/(api|_next/static|_next/image|favicon\.ico)(/|$)`

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Identity IdentityConfig
	Guard    GuardConfig
	Redis    RedisConfig
	Cache    CacheConfig
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

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// IdentityConfig points at the remote identity service.
type IdentityConfig struct {
	BaseURL   string
	TimeoutMS int
}

// GuardConfig holds the route tables and cookie names used by the route guard.
type GuardConfig struct {
	SessionCookie   string
	UserIDCookie    string
	AuthRoutes      []string
	ProtectedRoutes []string
	ExcludePattern  string
	SignInPath      string
	DashboardPath   string
	SecureCookies   bool
	JWTPrecheck     bool
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig controls the optional verification cache.
type CacheConfig struct {
	TTLSeconds int
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
			Name:                  getEnv("APP_NAME", "sport-analytics-web"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Identity: IdentityConfig{
			BaseURL:   getEnv("IDENTITY_BASE_URL", "http://127.0.0.1:8000"),
			TimeoutMS: getEnvAsInt("IDENTITY_TIMEOUT_MS", 3000),
		},
		Guard: GuardConfig{
			SessionCookie:   getEnv("GUARD_SESSION_COOKIE", "sport_analytics"),
			UserIDCookie:    getEnv("GUARD_USER_ID_COOKIE", "x-user-id"),
			AuthRoutes:      getEnvAsList("GUARD_AUTH_ROUTES", []string{"/sign-in", "/sign-up", "/forgot-password", "/reset-password"}),
			ProtectedRoutes: getEnvAsList("GUARD_PROTECTED_ROUTES", []string{"/dashboard", "/profile"}),
			ExcludePattern:  getEnv("GUARD_EXCLUDE_PATTERN", DefaultExcludePattern),
			SignInPath:      getEnv("GUARD_SIGN_IN_PATH", "/sign-in"),
			DashboardPath:   getEnv("GUARD_DASHBOARD_PATH", "/dashboard"),
			SecureCookies:   getEnvAsBool("GUARD_SECURE_COOKIES", false),
			JWTPrecheck:     getEnvAsBool("GUARD_JWT_PRECHECK", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			TTLSeconds: getEnvAsInt("VERIFY_CACHE_TTL_SECONDS", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the guard cannot run with.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Identity.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		errs = append(errs, fmt.Errorf("IDENTITY_BASE_URL must be an absolute URL, got %q", c.Identity.BaseURL))
	}
	if c.Identity.TimeoutMS <= 0 {
		errs = append(errs, errors.New("IDENTITY_TIMEOUT_MS must be positive"))
	}
	if c.Guard.SessionCookie == "" {
		errs = append(errs, errors.New("GUARD_SESSION_COOKIE must not be empty"))
	}
	if c.Guard.UserIDCookie == "" {
		errs = append(errs, errors.New("GUARD_USER_ID_COOKIE must not be empty"))
	}
	if _, err := regexp.Compile(c.Guard.ExcludePattern); err != nil {
		errs = append(errs, fmt.Errorf("invalid GUARD_EXCLUDE_PATTERN: %w", err))
	}
	if !strings.HasPrefix(c.Guard.SignInPath, "/") {
		errs = append(errs, fmt.Errorf("GUARD_SIGN_IN_PATH must start with /, got %q", c.Guard.SignInPath))
	}
	if !strings.HasPrefix(c.Guard.DashboardPath, "/") {
		errs = append(errs, fmt.Errorf("GUARD_DASHBOARD_PATH must start with /, got %q", c.Guard.DashboardPath))
	}
	if c.Cache.TTLSeconds < 0 {
		errs = append(errs, errors.New("VERIFY_CACHE_TTL_SECONDS must not be negative"))
	}

	return errors.Join(errs...)
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

// Timeout returns the per-call verification timeout.
func (i IdentityConfig) Timeout() time.Duration {
	return time.Duration(i.TimeoutMS) * time.Millisecond
}

// Enabled reports whether verified sessions should be cached.
func (c CacheConfig) Enabled() bool {
	return c.TTLSeconds > 0
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
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

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
