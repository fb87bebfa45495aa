package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Supported values for enumerated settings.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	PhotoModeProxy  = "proxy"
	PhotoModeDirect = "direct"

	MalformedAbort = "abort"
	MalformedSkip  = "skip"

	LogModeDevelopment = "development"
)

const devJWTSecret = "dev-secret"

// Config aggregates application-wide configuration values.
type Config struct {
	Port           string
	DatabaseDriver string
	DatabaseURL    string
	DBMaxConns     int32
	JWTSecret      string
	TokenTTL       time.Duration
	LogMode        string

	PlacesAPIKey   string
	PlacesLanguage string
	PhoneRegion    string

	GeminiAPIKey     string
	GeminiModel      string
	ExtractorTimeout time.Duration

	RateLimitSearch RateLimitConfig

	PhotoURLMode  string
	PhotoMaxWidth int
	PublicBaseURL string

	MalformedRecordPolicy string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		DatabaseDriver:        strings.ToLower(getEnv("DATABASE_DRIVER", DriverPostgres)),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		TokenTTL:              parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		LogMode:               getEnv("LOG_MODE", LogModeDevelopment),
		PlacesAPIKey:          os.Getenv("GOOGLE_PLACES_API_KEY"),
		PlacesLanguage:        getEnv("PLACES_LANGUAGE", "ja"),
		PhoneRegion:           strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "JP")),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		ExtractorTimeout:      parseDuration(getEnv("EXTRACTOR_TIMEOUT", "10s"), 10*time.Second),
		PhotoURLMode:          strings.ToLower(getEnv("PHOTO_URL_MODE", PhotoModeProxy)),
		PublicBaseURL:         strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		MalformedRecordPolicy: strings.ToLower(getEnv("MALFORMED_RECORD_POLICY", MalformedAbort)),
	}

	if cfg.JWTSecret == "" {
		if cfg.LogMode != LogModeDevelopment {
			return nil, fmt.Errorf("JWT_SECRET is required when LOG_MODE is %q", cfg.LogMode)
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.DatabaseDriver != DriverPostgres && cfg.DatabaseDriver != DriverSQLite {
		return nil, fmt.Errorf("invalid DATABASE_DRIVER value: %q", cfg.DatabaseDriver)
	}
	if cfg.DatabaseDriver == DriverSQLite && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "file:placepack.db"
	}
	if cfg.PhotoURLMode != PhotoModeProxy && cfg.PhotoURLMode != PhotoModeDirect {
		return nil, fmt.Errorf("invalid PHOTO_URL_MODE value: %q", cfg.PhotoURLMode)
	}
	if cfg.MalformedRecordPolicy != MalformedAbort && cfg.MalformedRecordPolicy != MalformedSkip {
		return nil, fmt.Errorf("invalid MALFORMED_RECORD_POLICY value: %q", cfg.MalformedRecordPolicy)
	}

	width, err := strconv.Atoi(getEnv("PHOTO_MAX_WIDTH", "400"))
	if err != nil || width < 1 || width > 4800 {
		return nil, fmt.Errorf("invalid PHOTO_MAX_WIDTH value: must be 1..4800")
	}
	cfg.PhotoMaxWidth = width

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil || maxConns < 1 || maxConns > 1000 {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS value: must be 1..1000")
	}
	cfg.DBMaxConns = int32(maxConns)

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SEARCH", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SEARCH value: %w", err)
	}
	cfg.RateLimitSearch = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
