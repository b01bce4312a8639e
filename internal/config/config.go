package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Session   SessionConfig
	Gate      GateConfig
	Redis     RedisConfig
	Email     EmailConfig
	OAuth     OAuthConfig
	Stripe    StripeConfig
	Storage   StorageConfig
	PDF       PDFConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Cache     CacheConfig
}

type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Debug   bool
	BaseURL string
}

type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	SQLitePath string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type SessionConfig struct {
	Secret     string
	CookieName string
	MaxAge     int // seconds
	Secure     bool
}

// GateConfig selects the store behind duplicate suppression and preview data
type GateConfig struct {
	Store string // memory, redis or database
	TTL   time.Duration
}

type RedisConfig struct {
	URL string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendSuccessURL string
	FrontendErrorURL   string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	PriceCents    int64
	Currency      string
	ProductName   string
	SuccessURL    string
	CancelURL     string
}

type StorageConfig struct {
	Path          string
	UploadMaxSize int64
}

type PDFConfig struct {
	BinaryPath string
	Timeout    time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type CacheConfig struct {
	CompanySize int
}

// Load reads configuration from .env and the environment
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	var readErr error
	if err := viper.ReadInConfig(); err != nil {
		readErr = fmt.Errorf(".env file not found, using environment variables: %w", err)
	}

	setDefaults()

	cfg := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Env:     viper.GetString("APP_ENV"),
			Port:    viper.GetString("APP_PORT"),
			Debug:   viper.GetBool("APP_DEBUG"),
			BaseURL: viper.GetString("APP_BASE_URL"),
		},
		Database: DatabaseConfig{
			Driver:     viper.GetString("DB_DRIVER"),
			Host:       viper.GetString("DB_HOST"),
			Port:       viper.GetString("DB_PORT"),
			Name:       viper.GetString("DB_NAME"),
			User:       viper.GetString("DB_USER"),
			Password:   viper.GetString("DB_PASSWORD"),
			SSLMode:    viper.GetString("DB_SSL_MODE"),
			Timezone:   viper.GetString("DB_TIMEZONE"),
			SQLitePath: viper.GetString("DB_SQLITE_PATH"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		Session: SessionConfig{
			Secret:     viper.GetString("SESSION_SECRET"),
			CookieName: viper.GetString("SESSION_COOKIE_NAME"),
			MaxAge:     viper.GetInt("SESSION_MAX_AGE"),
			Secure:     viper.GetBool("SESSION_SECURE"),
		},
		Gate: GateConfig{
			Store: viper.GetString("GATE_STORE"),
			TTL:   time.Duration(viper.GetInt("GATE_TTL_HOURS")) * time.Hour,
		},
		Redis: RedisConfig{
			URL: viper.GetString("REDIS_URL"),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("MAIL_FROM_NAME"),
			FromEmail:    viper.GetString("MAIL_FROM_EMAIL"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
			FrontendSuccessURL: viper.GetString("OAUTH_FRONTEND_SUCCESS_URL"),
			FrontendErrorURL:   viper.GetString("OAUTH_FRONTEND_ERROR_URL"),
		},
		Stripe: StripeConfig{
			SecretKey:     viper.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret: viper.GetString("STRIPE_WEBHOOK_SECRET"),
			PriceCents:    viper.GetInt64("PREMIUM_PRICE_CENTS"),
			Currency:      viper.GetString("PREMIUM_CURRENCY"),
			ProductName:   viper.GetString("PREMIUM_PRODUCT_NAME"),
			SuccessURL:    viper.GetString("STRIPE_SUCCESS_URL"),
			CancelURL:     viper.GetString("STRIPE_CANCEL_URL"),
		},
		Storage: StorageConfig{
			Path:          viper.GetString("STORAGE_PATH"),
			UploadMaxSize: viper.GetInt64("UPLOAD_MAX_SIZE"),
		},
		PDF: PDFConfig{
			BinaryPath: viper.GetString("WKHTMLTOPDF_PATH"),
			Timeout:    time.Duration(viper.GetInt("PDF_TIMEOUT_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level:      viper.GetString("LOG_LEVEL"),
			Format:     viper.GetString("LOG_FORMAT"),
			OutputPath: viper.GetString("LOG_OUTPUT"),
		},
		Cache: CacheConfig{
			CompanySize: viper.GetInt("COMPANY_CACHE_SIZE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, readErr
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "invoiceau-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_BASE_URL", "http://localhost:8080")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "invoiceau")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Australia/Sydney")
	viper.SetDefault("DB_SQLITE_PATH", "invoiceau.db")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("SESSION_SECRET", "change-this-session-secret-32-bytes")
	viper.SetDefault("SESSION_COOKIE_NAME", "invoiceau_session")
	viper.SetDefault("SESSION_MAX_AGE", 86400*30)
	viper.SetDefault("SESSION_SECURE", false)
	viper.SetDefault("GATE_STORE", "memory")
	viper.SetDefault("GATE_TTL_HOURS", 24)
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("MAIL_FROM_NAME", "Invoice Australia")
	viper.SetDefault("MAIL_FROM_EMAIL", "no-reply@invoiceau.local")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google/callback")
	viper.SetDefault("OAUTH_FRONTEND_SUCCESS_URL", "http://localhost:3000/auth/success")
	viper.SetDefault("OAUTH_FRONTEND_ERROR_URL", "http://localhost:3000/auth/error")
	viper.SetDefault("PREMIUM_PRICE_CENTS", 1999)
	viper.SetDefault("PREMIUM_CURRENCY", "aud")
	viper.SetDefault("PREMIUM_PRODUCT_NAME", "Invoice Australia Premium")
	viper.SetDefault("STRIPE_SUCCESS_URL", "http://localhost:3000/premium/success?session_id={CHECKOUT_SESSION_ID}")
	viper.SetDefault("STRIPE_CANCEL_URL", "http://localhost:3000/premium")
	viper.SetDefault("STORAGE_PATH", "./storage")
	viper.SetDefault("UPLOAD_MAX_SIZE", 2097152)
	viper.SetDefault("PDF_TIMEOUT_SECONDS", 30)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("COMPANY_CACHE_SIZE", 512)
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Gate.Store {
	case "memory", "redis", "database":
	default:
		return fmt.Errorf("unsupported GATE_STORE %q", c.Gate.Store)
	}
	if c.RateLimit.Duration <= 0 {
		return fmt.Errorf("RATE_LIMIT_DURATION must be positive")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
