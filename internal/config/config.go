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
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	SupportEmail string
	ContentPath  string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver       string
	DBConnection   string
	DBMaxOpenConns int

	// Session
	JWTSecret string
	JWTExpiry time.Duration

	// Identity providers (OAuth)
	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN      string
	MetricsEnabled bool

	// Cache (optional, empty disables the leaderboard cache)
	RedisURL            string
	LeaderboardCacheTTL time.Duration

	// Leaderboard
	LeaderboardSize int

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, Supabase Storage, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services
	S3PublicURL string // Optional: base URL for public object links, defaults to endpoint/bucket

	// Uploads
	MaxUploadSize int64
}

const (
	defaultDBDriver     = "sqlite"
	defaultDBConnection = "./data/campusshare.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
)

// LoadDatabase reads only the database settings, for tools that do not need
// the rest of the app configuration.
func LoadDatabase() (driver, connection string) {
	_ = godotenv.Load()
	return envString("DB_DRIVER", defaultDBDriver), envString("DB_CONNECTION", defaultDBConnection)
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "CampusShare"),
		AppEnv:       envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:       envRequired("APP_URL"), // Required: base URL for OAuth redirects and email links
		Port:         envString("PORT", "8090"),
		SupportEmail: envString("SUPPORT_EMAIL", "moderation@example.com"),
		ContentPath:  envString("CONTENT_PATH", "content"),

		// Database
		DBDriver:       envString("DB_DRIVER", defaultDBDriver),
		DBConnection:   envString("DB_CONNECTION", defaultDBConnection),
		DBMaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 25),

		// Session
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Identity providers
		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),
		GitHubClientID:     envString("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: envString("GITHUB_CLIENT_SECRET", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN:      envString("SENTRY_DSN", ""),
		MetricsEnabled: envBool("METRICS_ENABLED", true),

		// Cache
		RedisURL:            envString("REDIS_URL", ""),
		LeaderboardCacheTTL: envDuration("LEADERBOARD_CACHE_TTL", 2*time.Minute),

		LeaderboardSize: envInt("LEADERBOARD_SIZE", 20),

		// Storage
		S3Region:    envRequired("S3_REGION"),
		S3Bucket:    envString("S3_BUCKET", "academic-resources"),
		S3AccessKey: envRequired("S3_ACCESS_KEY"),
		S3SecretKey: envRequired("S3_SECRET_KEY"),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3PublicURL: envString("S3_PUBLIC_URL", ""),

		MaxUploadSize: int64(envInt("MAX_UPLOAD_SIZE_MB", 50)) * 1000 * 1000,
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures services that have a development fallback are
// configured for production deployments.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.GoogleClientID == "" && cfg.GitHubClientID == "" {
		slog.Error("production deployment requires at least one identity provider",
			"hint", "set GOOGLE_CLIENT_ID or GITHUB_CLIENT_ID")
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

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
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

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		SupportEmail: c.SupportEmail,

		GoogleClientID: c.GoogleClientID,
		GitHubClientID: c.GitHubClientID,

		LeaderboardSize: c.LeaderboardSize,
		MaxUploadSize:   c.MaxUploadSize,

		S3Endpoint:  c.S3Endpoint,
		S3PublicURL: c.S3PublicURL,
	}
}
