package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/storefront/backoffice/internal/core/domain"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth      AuthConfig
	Bootstrap BootstrapConfig
	Audit     AuditConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=12h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`

	// StaffCapabilities is the comma-separated grant of the staff role.
	StaffCapabilities []string `env:"STAFF_CAPABILITIES, default=staff_page"`
}

// BootstrapConfig names the administrator created when the store is empty.
type BootstrapConfig struct {
	Username string `env:"BOOTSTRAP_ADMIN_USERNAME"`
	Password string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=backoffice"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Auth.SessionTTL <= 0 {
		return nil, fmt.Errorf("load config: SESSION_TTL must be positive")
	}
	if cfg.Audit.Workers <= 0 {
		cfg.Audit.Workers = 1
	}
	return &cfg, nil
}

// IsDevelopment reports whether the process runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// StaffCapabilities returns the configured staff grant. Capabilities reserved
// to administrators are rejected.
func (c *Config) StaffCapabilities() ([]domain.Capability, error) {
	out := make([]domain.Capability, 0, len(c.Auth.StaffCapabilities))
	for _, raw := range c.Auth.StaffCapabilities {
		name := domain.Capability(strings.TrimSpace(raw))
		switch name {
		case domain.CapNone:
			continue
		case domain.CapManagement, domain.CapUserManage:
			return nil, fmt.Errorf("capability %q cannot be granted to staff", name)
		}
		out = append(out, name)
	}
	return out, nil
}
