// Package config loads application configuration from the environment.
//
// A .env file in the working directory is loaded first (if present) via
// godotenv, then each setting is read from the environment with a fallback
// default. Load validates the result so misconfiguration surfaces at startup
// rather than on the first request.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string // "development" or "production"
	DBPath      string
	FrontendURL string

	JWTSecret        string
	JWTRefreshSecret string
	JWTAccessTTL     time.Duration
	JWTRefreshTTL    time.Duration
	JWTResetTTL      time.Duration

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	SportsAPIURL string
	SportsAPIKey string

	// Per-resource cache freshness. Listings (teams, players, drivers)
	// change rarely; schedules change around matchdays; news sits between.
	ListingTTL  time.Duration
	ScheduleTTL time.Duration
	NewsTTL     time.Duration

	CORSOrigins []string

	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// RefreshSecretDerived is true when JWT_REFRESH_SECRET was unset and the
	// refresh secret was derived from JWT_SECRET. The derived value keeps
	// refresh tokens verifiable across restarts but is NOT cryptographically
	// independent of the access secret — callers should log a warning.
	RefreshSecretDerived bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "4000"),
		Env:         getEnv("APP_ENV", "development"),
		DBPath:      getEnv("DB_PATH", "data/arenax.db"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: strings.TrimSpace(os.Getenv("JWT_REFRESH_SECRET")),
		JWTAccessTTL:     getDuration("JWT_ACCESS_TTL", time.Hour),
		JWTRefreshTTL:    getDuration("JWT_REFRESH_TTL", 168*time.Hour),
		JWTResetTTL:      getDuration("JWT_RESET_TTL", 30*time.Minute),

		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  os.Getenv("GITHUB_CALLBACK_URL"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),

		SportsAPIURL: getEnv("SPORTS_API_URL", ""),
		SportsAPIKey: os.Getenv("SPORTS_API_KEY"),

		ListingTTL:  getDuration("CACHE_LISTING_TTL", 6*time.Hour),
		ScheduleTTL: getDuration("CACHE_SCHEDULE_TTL", 10*time.Minute),
		NewsTTL:     getDuration("CACHE_NEWS_TTL", 30*time.Minute),

		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "*")),

		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = cfg.FrontendURL + "/auth/github/callback"
	}
	if cfg.GoogleCallbackURL == "" {
		cfg.GoogleCallbackURL = cfg.FrontendURL + "/auth/google/callback"
	}

	// Refresh tokens are signed with an independent secret when one is
	// configured. When it isn't, derive one deterministically from the
	// access secret so refresh tokens stay verifiable across restarts.
	// This is a documented weakness, not a silent default: Load flags it
	// and main logs a startup warning.
	if cfg.JWTRefreshSecret == "" && cfg.JWTSecret != "" {
		cfg.JWTRefreshSecret = cfg.JWTSecret + ".refresh"
		cfg.RefreshSecretDerived = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("config: JWT_SECRET must be at least 16 characters")
	}
	if c.Port == "" {
		return fmt.Errorf("config: PORT cannot be empty")
	}
	if c.JWTAccessTTL <= 0 || c.JWTRefreshTTL <= 0 {
		return fmt.Errorf("config: token TTLs must be positive")
	}
	if c.JWTRefreshTTL <= c.JWTAccessTTL {
		return fmt.Errorf("config: JWT_REFRESH_TTL must exceed JWT_ACCESS_TTL")
	}
	return nil
}

// IsDevelopment reports whether diagnostic detail may be included in error
// responses. Production responses never carry internal messages.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
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

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
