package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	AppURL    string

	// CORSOrigins are extra origins allowed besides AppURL.
	CORSOrigins []string

	DB      DatabaseConfig
	Redis   RedisConfig
	Mail    MailConfig
	Storage StorageConfig
	HTTPS   HTTPSConfig
	Auth    AuthConfig
	Admin   AdminSeedConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MailConfig holds the EmailJS credentials used for server-side dispatch.
type MailConfig struct {
	ServiceID       string
	TemplateID      string
	ResetTemplateID string
	PublicKey       string
	PrivateKey      string
}

// Enabled reports whether enough credentials are present to reach EmailJS.
func (m MailConfig) Enabled() bool {
	return m.ServiceID != "" && m.TemplateID != "" && m.PublicKey != ""
}

// StorageConfig selects and configures the product image store.
type StorageConfig struct {
	Driver    string // local | s3
	PublicDir string
	PublicURL string
	S3        S3Config
}

// S3Config contains AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// HTTPSConfig drives the HTTPS enforcement middleware.
type HTTPSConfig struct {
	Force          bool
	HSTSMaxAge     int
	ExpiredCookies []string
}

// AuthConfig groups the timings of the session and verification flows.
type AuthConfig struct {
	SessionTTL            time.Duration
	VerificationCodeTTL   time.Duration
	ResendCooldown        time.Duration
	PasswordResetTTL      time.Duration
	PhoneCountryPrefix    string
	AuthRequestsPerMin    int
	CatalogBoundsLifetime time.Duration
}

// AdminSeedConfig describes the admin account ensured at boot.
type AdminSeedConfig struct {
	Name     string
	Email    string
	Password string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.AppURL = strings.TrimSuffix(getEnv("APP_URL", "http://localhost:8080"), "/")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", ""))

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// EmailJS
	cfg.Mail = MailConfig{
		ServiceID:       getEnv("EMAILJS_SERVICE_ID", ""),
		TemplateID:      getEnv("EMAILJS_TEMPLATE_ID", ""),
		ResetTemplateID: getEnv("EMAILJS_RESET_TEMPLATE_ID", ""),
		PublicKey:       getEnv("EMAILJS_PUBLIC_KEY", ""),
		PrivateKey:      getEnv("EMAILJS_PRIVATE_KEY", ""),
	}
	if cfg.Mail.ResetTemplateID == "" {
		cfg.Mail.ResetTemplateID = cfg.Mail.TemplateID
	}

	// Image storage
	cfg.Storage = StorageConfig{
		Driver:    strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		PublicDir: getEnv("STORAGE_PUBLIC_DIR", "storage/app/public"),
		PublicURL: strings.TrimSuffix(getEnv("STORAGE_PUBLIC_URL", "/storage"), "/"),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "eu-west-3"),
			Bucket:          getEnv("S3_BUCKET", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
	}

	// HTTPS enforcement
	cfg.HTTPS = HTTPSConfig{
		Force:          getEnvBool("FORCE_HTTPS", cfg.Env == "production"),
		HSTSMaxAge:     getEnvInt("HSTS_MAX_AGE", 31536000),
		ExpiredCookies: splitList(getEnv("EXPIRED_COOKIES", "XSRF-TOKEN,laravel_session,remember_web")),
	}

	// Auth timings
	var err error
	cfg.Auth.PhoneCountryPrefix = getEnv("PHONE_COUNTRY_PREFIX", "+216")
	cfg.Auth.AuthRequestsPerMin = getEnvInt("AUTH_REQUESTS_PER_MINUTE", 10)
	if cfg.Auth.SessionTTL, err = parseDurationEnv("SESSION_TTL", "336h"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.Auth.VerificationCodeTTL, err = parseDurationEnv("VERIFICATION_CODE_TTL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_CODE_TTL: %w", err)
	}
	if cfg.Auth.ResendCooldown, err = parseDurationEnv("VERIFICATION_RESEND_COOLDOWN", "60s"); err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_RESEND_COOLDOWN: %w", err)
	}
	if cfg.Auth.PasswordResetTTL, err = parseDurationEnv("PASSWORD_RESET_TTL", "60m"); err != nil {
		return nil, fmt.Errorf("invalid PASSWORD_RESET_TTL: %w", err)
	}
	if cfg.Auth.CatalogBoundsLifetime, err = parseDurationEnv("CATALOG_BOUNDS_TTL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_BOUNDS_TTL: %w", err)
	}

	// Admin seed
	cfg.Admin = AdminSeedConfig{
		Name:     getEnv("ADMIN_NAME", "Admin"),
		Email:    getEnv("ADMIN_EMAIL", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks the presence of required settings.
func (c *Config) validate() error {
	var missing []string
	if c.DB.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.DB.User == "" {
		missing = append(missing, "DB_USER")
	}
	if c.DB.Name == "" {
		missing = append(missing, "DB_NAME")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.Storage.Driver != "local" && c.Storage.Driver != "s3" {
		return fmt.Errorf("STORAGE_DRIVER must be 'local' or 's3', got %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "s3" && c.Storage.S3.Bucket == "" {
		return errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
