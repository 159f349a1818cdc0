package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
	Links LinksConfig
	Rate  RateLimitConfig

	MailWorkers int `env:"MAIL_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accounts"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
}

// LinksConfig holds the URL parts used to build verification links and
// the company branding injected into mail templates.
type LinksConfig struct {
	ControlPanelURL string `env:"CONTROL_PANEL_URL, default=http://localhost:4200"`
	SiteURL         string `env:"SITE_URL,          default=http://localhost:3000"`
	CompanyName     string `env:"COMPANY_NAME,      default=HubCRM"`
	SetPasswordPath string `env:"SET_PASSWORD_PATH, default=/set-password/"`
	VerifyEmailPath string `env:"VERIFY_EMAIL_PATH, default=/users/verify-email/"`
	LogoPath        string `env:"LOGO_PATH,         default=/assets/images/logo.png"`
}

// RateLimitConfig bounds authentication attempts per client IP.
type RateLimitConfig struct {
	Limit         int64 `env:"RATE_LIMIT,        default=50"`
	WindowSeconds int   `env:"RATE_LIMIT_WINDOW, default=120"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
