package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port     string
	AppName  string
	AppEnv   string
	LogLevel string

	// OpenRouter (OpenAI-compatible completion gateway)
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string
	SiteURL           string // sent as HTTP-Referer
	SiteTitle         string // sent as X-Title

	// Firebase credentials are read once from this path at startup
	FirebaseCredentialsFile string
	FirebaseProjectID       string

	// Profile store
	StoreDriver string
	DatabaseURL string

	// Observability
	AuditEnabled   bool
	MetricsEnabled bool
	SentryDSN      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:     envOrDefault("PORT", "4000"),
		AppName:  envOrDefault("APP_NAME", "Jal-Rakshak API"),
		AppEnv:   envOrDefault("APP_ENV", "development"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),

		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: strings.TrimRight(envOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"), "/"),
		OpenRouterModel:   envOrDefault("OPENROUTER_MODEL", "meta-llama/llama-3.2-3b-instruct:free"),
		SiteURL:           envOrDefault("SITE_URL", "http://localhost:3000"),
		SiteTitle:         envOrDefault("SITE_TITLE", "Jal-Rakshak"),

		FirebaseCredentialsFile: envOrDefault("FIREBASE_CREDENTIALS_FILE", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),

		StoreDriver: strings.ToLower(envOrDefault("STORE_DRIVER", StoreFirestore)),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		AuditEnabled:   envOrDefaultBool("AUDIT_ENABLED", true),
		MetricsEnabled: envOrDefaultBool("METRICS_ENABLED", true),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
	}
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.OpenRouterAPIKey == "" {
		errs = append(errs, errors.New("OPENROUTER_API_KEY is required"))
	}
	if c.FirebaseCredentialsFile == "" {
		errs = append(errs, errors.New("FIREBASE_CREDENTIALS_FILE is required"))
	}
	switch c.StoreDriver {
	case StoreFirestore:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid PORT %q", c.Port))
	}
	return errors.Join(errs...)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}
