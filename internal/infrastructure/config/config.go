package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs session tokens. Required: startup must fail without it.
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	// FrontendOrigin is allowed for credentialed CORS so the token cookie
	// works when frontend and API run on different origins.
	FrontendOrigin string `env:"FRONTEND_ORIGIN, default=http://localhost:3000"`

	// StoreTimeout bounds every user-store lookup made by the auth layer.
	StoreTimeout time.Duration `env:"STORE_TIMEOUT, default=5s"`

	// Login throttle: LoginAttempts per LoginWindow per (email, ip).
	LoginAttempts int           `env:"LOGIN_ATTEMPTS, default=10"`
	LoginWindow   time.Duration `env:"LOGIN_WINDOW,   default=1m"`

	Mongo MongoConfig
	Redis RedisConfig
	Edge  EdgeConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=lms"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// EdgeConfig configures the edge tier binary. The edge never receives the
// signing secret; it only needs where to listen and where the frontend lives.
type EdgeConfig struct {
	Addr     string `env:"EDGE_ADDR,     default=:8081"`
	Upstream string `env:"EDGE_UPSTREAM, default=http://localhost:3000"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// ValidateServer checks the invariants the API server cannot run without.
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	return nil
}
