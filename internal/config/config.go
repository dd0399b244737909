package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,notEmpty"`
	AdminAPIKey string `env:"ADMIN_API_KEY,notEmpty"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// RiskFreeRate is the annual rate used for Sharpe ratios, as a fraction.
	RiskFreeRate         decimal.Decimal `env:"RISK_FREE_RATE" envDefault:"0.06"`
	AnalyticsConcurrency int             `env:"ANALYTICS_CONCURRENCY" envDefault:"4"`

	IdempotencyCleanupSchedule string `env:"IDEMPOTENCY_CLEANUP_SCHEDULE" envDefault:"@hourly"`

	DBMaxOpenConns      int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns      int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetime   time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	DBConnMaxIdleTime   time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"1m"`
	DBConnectAttempts   int           `env:"DB_CONNECT_ATTEMPTS" envDefault:"30"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"30s"`
}

// Load reads the environment, after filling unset variables from a .env file
// in the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c Config) validate() error {
	if c.RiskFreeRate.IsNegative() || c.RiskFreeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("RISK_FREE_RATE must be a fraction in [0, 1), got %s", c.RiskFreeRate)
	}
	if c.AnalyticsConcurrency < 1 {
		return fmt.Errorf("ANALYTICS_CONCURRENCY must be at least 1")
	}
	return nil
}
