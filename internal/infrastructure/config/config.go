package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// MinSecretLength is the shortest JWT signing secret accepted at startup.
const MinSecretLength = 32

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	TokenTTL     time.Duration `env:"TOKEN_TTL,     default=24h"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT, default=5s"`

	// AutoCreateRoles provisions unknown roles on registration instead of
	// rejecting them.
	AutoCreateRoles bool `env:"AUTO_CREATE_ROLES, default=true"`
	// SeedDefaults inserts the USER/ADMIN roles and the default accounts on boot.
	SeedDefaults bool `env:"SEED_DEFAULTS, default=true"`

	Mongo MongoConfig
	Redis RedisConfig
	Login LoginConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=product_catalog"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Lockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return process(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from a fixed set of variables. Used by tests.
func LoadFrom(ctx context.Context, env map[string]string) (*Config, error) {
	return process(ctx, envconfig.MapLookuper(env))
}

func process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if len(c.JWTSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("config: JWT_SECRET must be at least %d characters", MinSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("config: TOKEN_TTL must be positive"))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New("config: STORE_TIMEOUT must be positive"))
	}
	if c.Login.MaxAttempts <= 0 {
		errs = append(errs, errors.New("config: LOGIN_MAX_ATTEMPTS must be positive"))
	}
	if c.Login.Lockout <= 0 {
		errs = append(errs, errors.New("config: LOGIN_LOCKOUT must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
