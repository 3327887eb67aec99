package config // package config loads application configuration from environment variables

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env              string // application environment (e.g. "dev", "prod")
	Port             string // HTTP port to listen on
	DatabaseURL      string // file:, postgres://, postgresql:// or mysql://
	JWTSecret        string // secret used to sign access tokens
	JWTRefreshSecret string // secret used to sign the refresh cookie
	AccessTTLMin     int
	RefreshTTLDays   int
	BcryptCost       int
	CookieSecure     bool
	PublicAppURL     string
	LogFile          string

	AMQPURL              string
	AuditConsumerEnabled bool
	AuditRetentionDays   int

	Bootstrap BootstrapAdmin
	Storage   StorageConfig
	Mail      MailConfig
}

// BootstrapAdmin is the super admin created on an empty users table.
type BootstrapAdmin struct {
	Username string
	Email    string
	Password string
}

// Enabled reports whether all three bootstrap values are set.
func (b BootstrapAdmin) Enabled() bool {
	return b.Username != "" && b.Email != "" && b.Password != ""
}

// StorageConfig selects and configures the image storage backend.
type StorageConfig struct {
	Provider string // cloudinary, supabase, s3 or "" for auto

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	S3Bucket        string
	S3PublicBaseURL string
}

// MailConfig configures the SMTP relay used for password-reset mail.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether an SMTP host is configured.
func (m MailConfig) Enabled() bool { return m.Host != "" }

// LoadDotEnv reads .env when present.  Missing files are not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env: %v", err)
	}
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	env := envStr("APP_ENV", "dev")
	return Config{
		Env:              env,
		Port:             envStr("APP_PORT", "3001"),
		DatabaseURL:      must("DATABASE_URL"),
		JWTSecret:        must("JWT_SECRET"),
		JWTRefreshSecret: must("JWT_REFRESH_SECRET"),
		AccessTTLMin:     envInt("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTTLDays:   envInt("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:       envInt("BCRYPT_COST", 12),
		CookieSecure:     envBool("COOKIE_SECURE", !isDev(env)),
		PublicAppURL:     strings.TrimRight(envStr("PUBLIC_APP_URL", "http://localhost:3001"), "/"),
		LogFile:          envStr("LOG_FILE", "logs/server.log"),

		AMQPURL:              amqpURL(),
		AuditConsumerEnabled: envBool("AUDIT_CONSUMER_ENABLED", true),
		AuditRetentionDays:   envInt("AUDIT_RETENTION_DAYS", 90),

		Bootstrap: BootstrapAdmin{
			Username: os.Getenv("BOOTSTRAP_ADMIN_USERNAME"),
			Email:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
			Password: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		},
		Storage: StorageConfig{
			Provider:            strings.ToLower(os.Getenv("STORAGE_PROVIDER")),
			CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			CloudinaryFolder:    envStr("CLOUDINARY_FOLDER", "trip-guides"),
			SupabaseURL:         strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
			SupabaseServiceKey:  os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
			SupabaseBucket:      envStr("SUPABASE_BUCKET", "images"),
			S3Bucket:            os.Getenv("S3_ASSETS_BUCKET"),
			S3PublicBaseURL:     strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
		},
		Mail: MailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envStr("MAIL_FROM", "no-reply@localhost"),
		},
	}
}

// AccessTTL returns the access token lifetime as a duration.
func (c Config) AccessTTL() time.Duration { return time.Duration(c.AccessTTLMin) * time.Minute }

// RefreshTTL returns the refresh cookie lifetime as a duration.
func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "local", "test", "development":
		return true
	}
	return false
}

func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
