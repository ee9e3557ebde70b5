package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"PORT,        default=8080"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	LogPretty  bool   `env:"LOG_PRETTY,  default=false"`
	TestMode   bool   `env:"TEST_MODE,   default=false"` // disables the rate guard outside production
	TrustProxy bool   `env:"TRUST_PROXY, default=false"` // take the client IP from X-Forwarded-For

	JWT       JWTConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Rate      RateConfig
	Bootstrap BootstrapConfig
}

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET, required"`
	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=parts_inventory"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// RateConfig holds the quota and window per sensitive endpoint family.
type RateConfig struct {
	LoginLimit    int           `env:"RATE_LOGIN_LIMIT,    default=5"`
	LoginWindow   time.Duration `env:"RATE_LOGIN_WINDOW,   default=15m"`
	RefreshLimit  int           `env:"RATE_REFRESH_LIMIT,  default=10"`
	RefreshWindow time.Duration `env:"RATE_REFRESH_WINDOW, default=60m"`
}

// BootstrapConfig describes the administrator created at startup when the
// email is not registered yet. Empty Email disables it.
type BootstrapConfig struct {
	Email    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	Password string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RateGuardBypassed reports whether throttling is switched off for tests.
func (c *Config) RateGuardBypassed() bool {
	return c.TestMode && !c.IsProduction()
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit variable source.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWT.Secret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 bytes")
	}
	if c.Rate.LoginLimit <= 0 || c.Rate.RefreshLimit <= 0 {
		return errors.New("rate limits must be positive")
	}
	if c.Rate.LoginWindow <= 0 || c.Rate.RefreshWindow <= 0 {
		return errors.New("rate windows must be positive")
	}
	if c.Bootstrap.Email != "" && len(c.Bootstrap.Password) < 8 {
		return errors.New("BOOTSTRAP_ADMIN_PASSWORD must be at least 8 characters")
	}
	return nil
}
