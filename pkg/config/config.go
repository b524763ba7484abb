package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration, read from the environment.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Firebase  FirebaseConfig
	Images    ImagesConfig
	Mail      MailConfig
	SMS       SMSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `env:"PORT"             env-default:"5000"`
	Env             string        `env:"ENV"              env-default:"development"`
	CORSOrigins     []string      `env:"CORS_ORIGINS"     env-separator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	QuoteBodyLimit  string        `env:"QUOTE_BODY_LIMIT" env-default:"25M"`
	// TrustedProxies are CIDR ranges whose X-Forwarded-For is believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES" env-separator:","`
}

// DatabaseConfig holds the MongoDB and PostgreSQL connection settings.
// Without MONGO_URI the records live in process memory (development only).
type DatabaseConfig struct {
	PostgresURL   string `env:"POSTGRES_CONN_STR" env-required:"true"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE"    env-default:"junkcaptain"`
}

// AuthConfig holds operator token settings.
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `env:"JWT_TTL"    env-default:"168h"`
}

// FirebaseConfig enables Firebase login and Firebase Storage when a
// credentials file is given.
type FirebaseConfig struct {
	CredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`
	StorageBucket   string `env:"FIREBASE_STORAGE_BUCKET"`
}

// ImagesConfig selects where quote photos are stored: none, firebase or minio.
type ImagesConfig struct {
	Store          string `env:"IMAGE_STORE"           env-default:"none"`
	Folder         string `env:"IMAGE_FOLDER"          env-default:"junkcaptain-quotes"`
	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL"         env-default:"true"`
	MinioPublicURL string `env:"MINIO_PUBLIC_URL"`
}

// MailConfig holds the Resend settings for new-lead emails.
type MailConfig struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	From         string `env:"RESEND_FROM_EMAIL"    env-default:"Junk Captain <onboarding@resend.dev>"`
	OwnerEmail   string `env:"BUSINESS_OWNER_EMAIL"`
}

// SMSConfig holds the Twilio settings for new-lead texts.
type SMSConfig struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	From       string `env:"TWILIO_PHONE_NUMBER"`
	OwnerPhone string `env:"BUSINESS_OWNER_PHONE"`
}

// RateLimitConfig limits public quote submissions per client IP.
// Without REDIS_URL submissions are not limited.
type RateLimitConfig struct {
	RedisURL string        `env:"REDIS_URL"`
	Quotes   int           `env:"QUOTE_RATE_LIMIT"  env-default:"10"`
	Window   time.Duration `env:"QUOTE_RATE_WINDOW" env-default:"1h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", slog.Any("error", err))
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings that depend on each other.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.Database.MongoURI == "" && c.IsProduction() {
		errs = append(errs, errors.New("MONGO_URI is required in production"))
	}

	switch c.Images.Store {
	case "none":
	case "firebase":
		if c.Firebase.CredentialsPath == "" || c.Firebase.StorageBucket == "" {
			errs = append(errs, errors.New("IMAGE_STORE=firebase needs FIREBASE_CREDENTIALS_PATH and FIREBASE_STORAGE_BUCKET"))
		}
	case "minio":
		if c.Images.MinioEndpoint == "" || c.Images.MinioBucket == "" {
			errs = append(errs, errors.New("IMAGE_STORE=minio needs MINIO_ENDPOINT and MINIO_BUCKET"))
		}
	default:
		errs = append(errs, fmt.Errorf("IMAGE_STORE %q: want none, firebase or minio", c.Images.Store))
	}

	for _, cidr := range c.Server.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errs = append(errs, fmt.Errorf("TRUSTED_PROXIES %q: want CIDR notation", cidr))
		}
	}

	if c.RateLimit.Quotes <= 0 {
		errs = append(errs, errors.New("QUOTE_RATE_LIMIT must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("QUOTE_RATE_WINDOW must be positive"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q: want json or text", c.Log.Format))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

// MailEnabled reports whether new-lead emails can be sent.
func (c *Config) MailEnabled() bool {
	return c.Mail.ResendAPIKey != "" && c.Mail.OwnerEmail != ""
}

// SMSEnabled reports whether new-lead texts can be sent.
func (c *Config) SMSEnabled() bool {
	return c.SMS.AccountSID != "" && c.SMS.AuthToken != "" && c.SMS.From != "" && c.SMS.OwnerPhone != ""
}
