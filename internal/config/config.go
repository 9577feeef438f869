package config

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const EnvProduction = "production"

type Config struct {
	ServerPort              string        `env:"PORT, default=8080"`
	Env                     string        `env:"APP_ENV, default=development"`
	LogLevel                string        `env:"LOG_LEVEL, default=info"`
	ServerReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT, default=10s"`
	ServerWriteTimeout      time.Duration `env:"SERVER_WRITE_TIMEOUT, default=30s"`
	ServerIdleTimeout       time.Duration `env:"SERVER_IDLE_TIMEOUT, default=120s"`
	RequestTimeout          time.Duration `env:"REQUEST_TIMEOUT, default=30s"`
	CORSOrigins             []string      `env:"CORS_ORIGINS, default=http://localhost:3000"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS, default=10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS, default=1"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN, default=720h"`

	CookieSameSite string `env:"COOKIE_SAMESITE, default=lax"`
	CookieDomain   string `env:"COOKIE_DOMAIN"`
	CookieSecure   string `env:"COOKIE_SECURE"`

	AuditLogLimit int `env:"AUDIT_LOG_LIMIT, default=100"`
}

// Load reads a .env file when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return LoadWith(context.Background(), envconfig.OsLookuper())
}

func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.CookieSameSite = strings.ToLower(strings.TrimSpace(cfg.CookieSameSite))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.JWTExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS are inconsistent")
	}

	if _, err := c.SameSite(); err != nil {
		return err
	}

	if _, err := c.secureOverride(); err != nil {
		return err
	}

	if c.AuditLogLimit <= 0 {
		return fmt.Errorf("AUDIT_LOG_LIMIT must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), EnvProduction)
}

func (c *Config) SameSite() (http.SameSite, error) {
	switch c.CookieSameSite {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("COOKIE_SAMESITE must be one of lax, strict, none")
	}
}

// SecureCookies follows COOKIE_SECURE when set and the deployment mode
// otherwise. SameSite=None always forces Secure.
func (c *Config) SecureCookies() bool {
	if sameSite, err := c.SameSite(); err == nil && sameSite == http.SameSiteNoneMode {
		return true
	}

	if override, err := c.secureOverride(); err == nil && override != nil {
		return *override
	}

	return c.IsProduction()
}

func (c *Config) secureOverride() (*bool, error) {
	raw := strings.TrimSpace(c.CookieSecure)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("COOKIE_SECURE must be a boolean")
	}

	return &v, nil
}
