package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Metadata providers
	TMDbAPIKey              string
	TMDbBaseURL             string
	TMDbImageBase           string
	TMDbLanguage            string
	TMDbIncludeAdult        bool
	OpenLibraryBaseURL      string
	OpenLibraryCoverBase    string
	MetadataTimeout         time.Duration
	MetadataBreakerFailures int
	MetadataBreakerCooldown time.Duration

	// Paging
	FeedPageSize    int
	ProfilePageSize int
	ShowcaseLimit   int

	// Rate limiting (per client IP)
	RateLimitRPS   float64
	RateLimitBurst int

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible, optional: avatar uploads are disabled without a bucket)
	S3Region              string
	S3Bucket              string
	S3AccessKey           string
	S3SecretKey           string
	S3Endpoint            string
	S3PresignExpiryPublic time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Shelf"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/shelf.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Metadata providers
		TMDbAPIKey:              envString("TMDB_API_KEY", ""),
		TMDbBaseURL:             envString("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDbImageBase:           envString("TMDB_IMAGE_BASE", "https://image.tmdb.org/t/p/w500"),
		TMDbLanguage:            envString("TMDB_LANGUAGE", "en-US"),
		TMDbIncludeAdult:        envBool("TMDB_INCLUDE_ADULT", false),
		OpenLibraryBaseURL:      envString("OPENLIBRARY_BASE_URL", "https://openlibrary.org"),
		OpenLibraryCoverBase:    envString("OPENLIBRARY_COVER_BASE", "https://covers.openlibrary.org/b/id"),
		MetadataTimeout:         envDuration("METADATA_TIMEOUT", 5*time.Second),
		MetadataBreakerFailures: envInt("METADATA_BREAKER_FAILURES", 5),
		MetadataBreakerCooldown: envDuration("METADATA_BREAKER_COOLDOWN", 30*time.Second),

		// Paging
		FeedPageSize:    envInt("FEED_PAGE_SIZE", 16),
		ProfilePageSize: envInt("PROFILE_PAGE_SIZE", 10),
		ShowcaseLimit:   envInt("SHOWCASE_LIMIT", 15),

		// Rate limiting
		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 20),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:              envString("S3_REGION", "us-east-1"),
		S3Bucket:              envString("S3_BUCKET", ""),
		S3AccessKey:           envString("S3_ACCESS_KEY", ""),
		S3SecretKey:           envString("S3_SECRET_KEY", ""),
		S3Endpoint:            envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
		S3PresignExpiryPublic: envDuration("S3_PRESIGN_EXPIRY_PUBLIC", 168*time.Hour),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures the metadata provider is configured for production deployments.
// Development allows imports without enrichment.
func validateProduction(cfg *Config) {
	if cfg.TMDbAPIKey == "" {
		slog.Error("production deployment requires TMDB_API_KEY",
			"hint", "set APP_ENV=development to import movies without enrichment")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("config invalid float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UploadsEnabled reports whether avatar uploads have a bucket to go to.
func (c *Config) UploadsEnabled() bool {
	return c.S3Bucket != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// Secrets, credentials and API keys are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		FeedPageSize:    c.FeedPageSize,
		ProfilePageSize: c.ProfilePageSize,
		ShowcaseLimit:   c.ShowcaseLimit,

		S3Endpoint: c.S3Endpoint,
		S3Bucket:   c.S3Bucket,
	}
}
