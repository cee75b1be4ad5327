package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development" env-description:"development or production"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
		LogLevel  string `env:"LOG_LEVEL" env-description:"debug, info, warn or error; defaults by APP_ENV"`
	}
	Resolver struct {
		APIBase        string   `env:"RESOLVER_API_BASE" env-default:"https://api.tiklydown.eu.org/api/download/v3"`
		UserAgent      string   `env:"RESOLVER_USER_AGENT" env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"`
		ValidateDomain bool     `env:"RESOLVER_VALIDATE_DOMAIN" env-default:"true" env-description:"reject input that does not mention a platform domain"`
		Domains        []string `env:"RESOLVER_DOMAINS" env-default:"tiktok.com" env-separator:","`
	}
	Session struct {
		TTL           time.Duration `env:"SESSION_TTL" env-default:"30m"`
		SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" env-default:"5m"`
	}
	Postgres struct {
		Enabled          bool          `env:"POSTGRES_ENABLED" env-default:"false"`
		Port             int           `env:"POSTGRES_PORT" env-default:"5432"`
		Host             string        `env:"POSTGRES_HOST" env-default:"localhost"`
		User             string        `env:"POSTGRES_USER"`
		Pass             string        `env:"POSTGRES_PASS"`
		Name             string        `env:"POSTGRES_NAME"`
		SslMode          string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
		HistoryRetention time.Duration `env:"HISTORY_RETENTION" env-default:"120h"`
	}
	Telegram struct {
		Token string `env:"TELEGRAM_TOKEN" env-description:"bot token, the bot is disabled when empty"`
		User  int64  `env:"TELEGRAM_USER" env-description:"admin chat that receives service alerts"`
	}
}

// GetDSN returns the lib/pq style connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

// GetURL returns the postgres:// connection string used by pgxpool.
func (c *Config) GetURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.User, c.Postgres.Pass),
		Host:     net.JoinHostPort(c.Postgres.Host, strconv.Itoa(c.Postgres.Port)),
		Path:     "/" + c.Postgres.Name,
		RawQuery: url.Values{"sslmode": {c.Postgres.SslMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

var (
	once sync.Once
	cfg  *Config
	err  error
)

// New returns the process-wide configuration, reading it on first use.
func New() (*Config, error) {
	once.Do(func() {
		if loadErr := godotenv.Load(); loadErr != nil {
			log.Println("No .env file found, falling back to system environment variables")
		}
		cfg, err = Load()
		if err != nil {
			help, _ := cleanenv.GetDescription(&Config{}, nil)
			err = fmt.Errorf("failed to read configuration: %w\n%s", err, help)
		}
	})
	return cfg, err
}

// Load reads a fresh Config from the environment.
func Load() (*Config, error) {
	c := &Config{}
	if err := cleanenv.ReadEnv(c); err != nil {
		return nil, err
	}
	for i, d := range c.Resolver.Domains {
		c.Resolver.Domains[i] = strings.ToLower(strings.TrimSpace(d))
	}
	return c, nil
}
