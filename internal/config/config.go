package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/nambiararyan24/portfolio/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig `validate:"required"`
	Server    ServerConfig   `validate:"required"`
	Redis     RedisConfig
	Email     EmailConfig `validate:"required"`
	Recaptcha RecaptchaConfig
	Admin     AdminConfig   `validate:"required"`
	Forms     FormsConfig   `validate:"required"`
	Uploads   UploadsConfig `validate:"required"`
	Content   ContentConfig
	LogLevel  string `validate:"omitempty,oneof=ERROR WARN INFO DEBUG TRACE"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL          string `validate:"required"`
	MaxOpenConns int    `validate:"gte=1"`
	MaxIdleConns int    `validate:"gte=0"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string `validate:"required,numeric"`
	AllowedOrigin   string
	ShutdownTimeout time.Duration `validate:"gt=0"`
	SecureCookies   bool
	// TrustProxy honours X-Forwarded-For and X-Real-IP. Enable it only
	// behind a reverse proxy that overwrites those headers.
	TrustProxy bool
}

// RedisConfig holds the optional admin session store settings. An empty URL
// selects the in-process session store.
type RedisConfig struct {
	URL    string `validate:"omitempty,url"`
	Prefix string `validate:"required"`
}

// EmailConfig holds notification delivery settings
type EmailConfig struct {
	ResendAPIKey string
	APIBaseURL   string        `validate:"required,url"`
	From         string        `validate:"required"`
	AutoReply    string        `validate:"required"`
	AdminEmail   string        `validate:"required,email"`
	SiteURL      string        `validate:"required,url"`
	Timeout      time.Duration `validate:"gt=0"`
}

// RecaptchaConfig holds the optional bot verification settings
type RecaptchaConfig struct {
	Secret    string
	VerifyURL string  `validate:"required,url"`
	MinScore  float64 `validate:"gte=0,lte=1"`
}

// AdminConfig holds back office settings
type AdminConfig struct {
	BootstrapEmail    string        `validate:"omitempty,email"`
	BootstrapPassword string        `validate:"omitempty,min=8"`
	SessionTTL        time.Duration `validate:"gt=0"`
}

// FormsConfig holds wizard and submission settings
type FormsConfig struct {
	AbandonWindow    time.Duration `validate:"gt=0"`
	SessionIdleTTL   time.Duration `validate:"gt=0"`
	SubmitRatePerMin int           `validate:"gte=1"`
	SubmitBurst      int           `validate:"gte=1"`
	OpenRatePerMin   int           `validate:"gte=1"`
	OpenBurst        int           `validate:"gte=1"`
	MaxSessions      int           `validate:"gte=1"`
	AnalyticsBuffer  int           `validate:"gte=1"`
}

// UploadsConfig holds file upload settings
type UploadsConfig struct {
	Dir         string `validate:"required"`
	MaxUploadMB int    `validate:"gte=1,lte=100"`
	PublicPath  string `validate:"required,startswith=/"`
}

// ContentConfig holds public content settings
type ContentConfig struct {
	ApprovedReviewsOnly bool
}

// Load reads .env (when present) and the environment, then validates the result.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	config.Server = *loadServerConfig()
	config.Redis = *loadRedisConfig()
	config.Email = *loadEmailConfig()
	config.Recaptcha = *loadRecaptchaConfig()
	config.Admin = *loadAdminConfig()
	config.Forms = *loadFormsConfig()
	config.Uploads = *loadUploadsConfig()
	config.Content = ContentConfig{
		ApprovedReviewsOnly: getEnvBoolOrDefault("PUBLIC_REVIEWS_APPROVED_ONLY", false),
	}
	config.LogLevel = strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO"))

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:          url,
		MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		AllowedOrigin:   getEnvOrDefault("ALLOWED_ORIGIN", ""),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		SecureCookies:   getEnvBoolOrDefault("SECURE_COOKIES", true),
		TrustProxy:      getEnvBoolOrDefault("TRUST_PROXY", false),
	}
}

func loadRedisConfig() *RedisConfig {
	return &RedisConfig{
		URL:    getEnvOrDefault("REDIS_URL", ""),
		Prefix: getEnvOrDefault("REDIS_PREFIX", "portfolio"),
	}
}

func loadEmailConfig() *EmailConfig {
	return &EmailConfig{
		ResendAPIKey: getEnvOrDefault("RESEND_API_KEY", ""),
		APIBaseURL:   getEnvOrDefault("RESEND_API_URL", "https://api.resend.com"),
		From:         getEnvOrDefault("EMAIL_FROM", "Portfolio Contact Form <noreply@yourdomain.com>"),
		AutoReply:    getEnvOrDefault("EMAIL_AUTOREPLY_FROM", "Your Name <noreply@yourdomain.com>"),
		AdminEmail:   getEnvOrDefault("ADMIN_EMAIL", "admin@example.com"),
		SiteURL:      strings.TrimRight(getEnvOrDefault("SITE_URL", "http://localhost:8080"), "/"),
		Timeout:      getEnvDurationOrDefault("EMAIL_TIMEOUT", 10*time.Second),
	}
}

func loadRecaptchaConfig() *RecaptchaConfig {
	return &RecaptchaConfig{
		Secret:    getEnvOrDefault("RECAPTCHA_SECRET", ""),
		VerifyURL: getEnvOrDefault("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),
		MinScore:  getEnvFloatOrDefault("RECAPTCHA_MIN_SCORE", 0.5),
	}
}

func loadAdminConfig() *AdminConfig {
	return &AdminConfig{
		BootstrapEmail:    getEnvOrDefault("ADMIN_EMAIL", ""),
		BootstrapPassword: getEnvOrDefault("ADMIN_PASSWORD", ""),
		SessionTTL:        getEnvDurationOrDefault("ADMIN_SESSION_TTL", 12*time.Hour),
	}
}

func loadFormsConfig() *FormsConfig {
	return &FormsConfig{
		AbandonWindow:    getEnvDurationOrDefault("FORM_ABANDON_WINDOW", 30*time.Second),
		SessionIdleTTL:   getEnvDurationOrDefault("FORM_SESSION_IDLE_TTL", 30*time.Minute),
		SubmitRatePerMin: getEnvIntOrDefault("SUBMIT_RATE_PER_MIN", 5),
		SubmitBurst:      getEnvIntOrDefault("SUBMIT_BURST", 3),
		OpenRatePerMin:   getEnvIntOrDefault("FORM_OPEN_RATE_PER_MIN", 30),
		OpenBurst:        getEnvIntOrDefault("FORM_OPEN_BURST", 10),
		MaxSessions:      getEnvIntOrDefault("FORM_MAX_SESSIONS", 10000),
		AnalyticsBuffer:  getEnvIntOrDefault("ANALYTICS_BUFFER", 256),
	}
}

func loadUploadsConfig() *UploadsConfig {
	return &UploadsConfig{
		Dir:         getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 10),
		PublicPath:  getEnvOrDefault("UPLOAD_PUBLIC_PATH", "/files"),
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		if invalid, ok := err.(validator.ValidationErrors); ok && len(invalid) > 0 {
			first := invalid[0]
			return errors.ConfigInvalid(first.Namespace() + " failed " + first.Tag() + " check")
		}
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
