package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DriverType identifies which gorm dialector the server opens.
type DriverType string

const (
	DriverPostgres DriverType = "postgres"
	DriverSQLite   DriverType = "sqlite"
)

// PhotoStoreType selects where uploaded profile photos are kept.
type PhotoStoreType string

const (
	PhotoStoreLocal PhotoStoreType = "local"
	PhotoStoreS3    PhotoStoreType = "s3"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is empty")
	ErrMissingS3Bucket    = errors.New("S3_BUCKET is required when PHOTO_STORE=s3")
	ErrInvalidDriver      = errors.New("DB_DRIVER must be postgres or sqlite")
	ErrBootstrapPassword  = errors.New("ADMIN_BOOTSTRAP_PASSWORD is required when ADMIN_BOOTSTRAP_ID is set")
)

// DefaultAllowedOrigins are the Vite dev servers the frontend runs on.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:5174"}

// Config holds everything the server needs at start-up.
type Config struct {
	Port string

	DatabaseURL string
	Driver      DriverType
	// Schema is the Postgres schema tables live in. Ignored for sqlite.
	Schema     string
	DBLogLevel string

	AllowedOrigins []string

	PhotoStore        PhotoStoreType
	UploadDir         string
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	SESSender      string
	SESRegion      string
	ContactToEmail string
	// ContactWebhookSecret enables the signed form webhook when set.
	ContactWebhookSecret string

	SessionTTL     time.Duration
	LoginRateLimit float64
	LoginBurst     int
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Only safe behind a proxy that overwrites them.
	TrustProxyHeaders bool

	AdminBootstrapID       string
	AdminBootstrapPassword string
	AdminBootstrapEmail    string
}

// LoadFromEnv loads configuration from environment variables.
//
// Environment variables:
//   - PORT: listen port (default: 5050)
//   - DATABASE_URL: postgres DSN or sqlite file path (required)
//   - DB_DRIVER: "postgres" or "sqlite" (default: postgres)
//   - DB_SCHEMA: postgres schema (default: fitness)
//   - DB_LOG_LEVEL: "silent", "error", "warn" or "info" (default: warn)
//   - ALLOWED_ORIGINS: comma separated CORS allow-list
//   - PHOTO_STORE: "local" or "s3" (default: local)
//   - UPLOAD_DIR: root directory for the local photo store (default: uploads)
//   - S3_BUCKET, S3_REGION (falls back to AWS_REGION), S3_ENDPOINT
//   - S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY: static keys, optional
//   - SES_SENDER, SES_REGION (falls back to AWS_REGION), CONTACT_TO_EMAIL
//   - CONTACT_WEBHOOK_SECRET: HMAC secret of the form webhook, optional
//   - SESSION_TTL: Go duration (default: 6h)
//   - LOGIN_RATE_LIMIT: login attempts per second, 0 disables (default: 1)
//   - LOGIN_RATE_BURST: burst size (default: 5)
//   - TRUST_PROXY_HEADERS: "true" behind a trusted reverse proxy (default: false)
//   - ADMIN_BOOTSTRAP_ID, ADMIN_BOOTSTRAP_PASSWORD, ADMIN_BOOTSTRAP_EMAIL
func LoadFromEnv() Config {
	driver := DriverType(strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER"))))
	if driver == "" {
		driver = DriverPostgres
	}

	store := PhotoStoreType(strings.ToLower(strings.TrimSpace(os.Getenv("PHOTO_STORE"))))
	if store != PhotoStoreS3 {
		store = PhotoStoreLocal
	}

	awsRegion := os.Getenv("AWS_REGION")

	return Config{
		Port:                   getEnvOrDefault("PORT", "5050"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		Driver:                 driver,
		Schema:                 getEnvOrDefault("DB_SCHEMA", "fitness"),
		DBLogLevel:             getEnvOrDefault("DB_LOG_LEVEL", "warn"),
		AllowedOrigins:         splitList(os.Getenv("ALLOWED_ORIGINS"), DefaultAllowedOrigins),
		PhotoStore:             store,
		UploadDir:              getEnvOrDefault("UPLOAD_DIR", "uploads"),
		S3Bucket:               os.Getenv("S3_BUCKET"),
		S3Region:               getEnvOrDefault("S3_REGION", awsRegion),
		S3Endpoint:             os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:          os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey:      os.Getenv("S3_SECRET_ACCESS_KEY"),
		SESSender:              os.Getenv("SES_SENDER"),
		SESRegion:              getEnvOrDefault("SES_REGION", awsRegion),
		ContactToEmail:         os.Getenv("CONTACT_TO_EMAIL"),
		ContactWebhookSecret:   os.Getenv("CONTACT_WEBHOOK_SECRET"),
		SessionTTL:             getDuration("SESSION_TTL", 6*time.Hour),
		LoginRateLimit:         getFloat("LOGIN_RATE_LIMIT", 1),
		LoginBurst:             getInt("LOGIN_RATE_BURST", 5),
		TrustProxyHeaders:      getBool("TRUST_PROXY_HEADERS"),
		AdminBootstrapID:       os.Getenv("ADMIN_BOOTSTRAP_ID"),
		AdminBootstrapPassword: os.Getenv("ADMIN_BOOTSTRAP_PASSWORD"),
		AdminBootstrapEmail:    os.Getenv("ADMIN_BOOTSTRAP_EMAIL"),
	}
}

// Validate checks that the configuration can be used to start the server.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return ErrInvalidDriver
	}
	if c.PhotoStore == PhotoStoreS3 && c.S3Bucket == "" {
		return ErrMissingS3Bucket
	}
	if c.AdminBootstrapID != "" && c.AdminBootstrapPassword == "" {
		return ErrBootstrapPassword
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getFloat(key string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getBool(key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && b
}

func splitList(raw string, def []string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
