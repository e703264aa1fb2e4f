// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application. It is constructed once
// at process start and passed by reference into every component that needs it.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSource          string        `mapstructure:"DB_SOURCE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Session Token Configuration
	JWTAccessSecret       string        `mapstructure:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret      string        `mapstructure:"JWT_REFRESH_SECRET"`
	JWTAccessTokenExpiry  time.Duration `mapstructure:"JWT_ACCESS_EXPIRY_MINUTES"`
	JWTRefreshTokenExpiry time.Duration `mapstructure:"JWT_REFRESH_EXPIRY_DAYS"`

	// Email Confirmation Configuration
	EmailVerificationSecret string        `mapstructure:"EMAIL_VERIFICATION_SECRET"`
	EmailVerificationExpiry time.Duration `mapstructure:"EMAIL_VERIFICATION_EXPIRY_HOURS"`
	EmailConfirmationURL    string        `mapstructure:"EMAIL_CONFIRMATION_URL"`

	// SMTP Configuration
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	// Google OAuth Configuration
	GoogleClientID     string `mapstructure:"GOOGLE_AUTH_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_AUTH_CLIENT_SECRET"`
	GoogleRedirectURI  string `mapstructure:"GOOGLE_REDIRECT_URI"`

	// OAuth state cookie settings
	OAuthStateCookieName     string `mapstructure:"OAUTH_STATE_COOKIE_NAME"`
	OAuthCookieDomain        string `mapstructure:"OAUTH_COOKIE_DOMAIN"`
	OAuthCookieMaxAgeMinutes int    `mapstructure:"OAUTH_COOKIE_MAX_AGE_MINUTES"`
	OAuthCookieSecure        bool   `mapstructure:"OAUTH_COOKIE_SECURE"`
	OAuthCookieHTTPOnly      bool   `mapstructure:"OAUTH_COOKIE_HTTP_ONLY"`
	OAuthCookieSameSite      string `mapstructure:"OAUTH_COOKIE_SAME_SITE"`

	// Cron Jobs
	RefreshTokenSweepSchedule string `mapstructure:"REFRESH_TOKEN_SWEEP_SCHEDULE"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "fintrack_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("DB_SOURCE", "")

	// Secrets have no usable default, but every key must be registered with
	// Viper for AutomaticEnv to surface its env value through Unmarshal.
	v.SetDefault("JWT_ACCESS_SECRET", "")
	v.SetDefault("JWT_REFRESH_SECRET", "")
	v.SetDefault("JWT_ACCESS_EXPIRY_MINUTES", 15)
	v.SetDefault("JWT_REFRESH_EXPIRY_DAYS", 7)

	v.SetDefault("EMAIL_VERIFICATION_SECRET", "")
	v.SetDefault("EMAIL_VERIFICATION_EXPIRY_HOURS", 24)
	v.SetDefault("EMAIL_CONFIRMATION_URL", "http://localhost:3000/email-confirmation/confirm")

	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "no-reply@fintrack.local")

	v.SetDefault("GOOGLE_AUTH_CLIENT_ID", "")
	v.SetDefault("GOOGLE_AUTH_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URI", "")

	v.SetDefault("OAUTH_STATE_COOKIE_NAME", "oauth_state")
	v.SetDefault("OAUTH_COOKIE_DOMAIN", "")
	v.SetDefault("OAUTH_COOKIE_MAX_AGE_MINUTES", 10)
	v.SetDefault("OAUTH_COOKIE_SECURE", false)
	v.SetDefault("OAUTH_COOKIE_HTTP_ONLY", true)
	v.SetDefault("OAUTH_COOKIE_SAME_SITE", "Lax")

	v.SetDefault("REFRESH_TOKEN_SWEEP_SCHEDULE", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.JWTAccessTokenExpiry = time.Duration(v.GetInt("JWT_ACCESS_EXPIRY_MINUTES")) * time.Minute
	cfg.JWTRefreshTokenExpiry = time.Duration(v.GetInt("JWT_REFRESH_EXPIRY_DAYS")) * 24 * time.Hour
	cfg.EmailVerificationExpiry = time.Duration(v.GetInt("EMAIL_VERIFICATION_EXPIRY_HOURS")) * time.Hour

	// GORM DSN constructed from the individual DB_* parameters. The DB_SOURCE
	// env var, when set, is primarily for external migration tooling.
	cfg.DBSource = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, cfg.DBTimezone)

	// Basic validation for critical configs
	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, fmt.Errorf("FATAL: JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set")
	}
	if cfg.EmailVerificationSecret == "" {
		return nil, fmt.Errorf("FATAL: EMAIL_VERIFICATION_SECRET is not set. It is required to sign email confirmation tokens")
	}

	return &cfg, nil
}
