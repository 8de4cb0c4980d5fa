package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Identity     IdentityConfig
	Ordering     OrderingConfig
	Saga         SagaConfig
	Square       SquareConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OOS_APP_ENV" required:"true"`
	Port         string `envconfig:"OOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"OOS_DB_DSN"`
	Driver string `envconfig:"OOS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"OOS_DB_HOST"`
	Port     int    `envconfig:"OOS_DB_PORT" default:"5432"`
	User     string `envconfig:"OOS_DB_USER"`
	Password string `envconfig:"OOS_DB_PASSWORD"`
	Name     string `envconfig:"OOS_DB_NAME"`
	SSLMode  string `envconfig:"OOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database config incomplete: set OOS_DB_DSN or host/user/name")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"OOS_REDIS_URL"`
	Address      string        `envconfig:"OOS_REDIS_ADDR"`
	Password     string        `envconfig:"OOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"OOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// IdentityConfig points at the auth service acting as identity oracle.
type IdentityConfig struct {
	BaseURL string        `envconfig:"OOS_AUTH_URL" required:"true"`
	Timeout time.Duration `envconfig:"OOS_AUTH_TIMEOUT" default:"5s"`
}

type OrderingConfig struct {
	// BaseURL is the ordering service endpoint the payment orchestrator
	// calls into. The ordering service itself ignores it.
	BaseURL string `envconfig:"OOS_ORDERING_URL"`

	// TrackPaymentStatus selects which predicate defines an open order.
	// Enabled: open means Status=Pending and PaymentStatus=Unpaid, and
	// finalize marks the order Paid. Disabled: the legacy single-status
	// schema where finalize leaves Status at Pending.
	TrackPaymentStatus bool `envconfig:"OOS_ORDERING_TRACK_PAYMENT_STATUS" default:"true"`
}

type SagaConfig struct {
	CallTimeout   time.Duration `envconfig:"OOS_SAGA_CALL_TIMEOUT" default:"10s"`
	RetryAttempts int           `envconfig:"OOS_SAGA_RETRY_ATTEMPTS" default:"2"`
	RetryBackoff  time.Duration `envconfig:"OOS_SAGA_RETRY_BACKOFF" default:"200ms"`
}

// SquareConfig drives the hosted checkout-session integration. Leaving the
// access token empty disables the create-checkout endpoint.
type SquareConfig struct {
	AccessToken string `envconfig:"OOS_SQUARE_ACCESS_TOKEN"`
	Environment string `envconfig:"OOS_SQUARE_ENV" default:"sandbox"`
	LocationID  string `envconfig:"OOS_SQUARE_LOCATION_ID"`
	Currency    string `envconfig:"OOS_SQUARE_CURRENCY" default:"PHP"`
}

func (s SquareConfig) Enabled() bool {
	return strings.TrimSpace(s.AccessToken) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OOS_AUTO_MIGRATE" default:"false"`
}
