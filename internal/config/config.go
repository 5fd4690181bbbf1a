package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

const envPrefix = "ORCHESTRATOR_"

type Config struct {
	Primary     Primary            `koanf:"primary"`
	Server      ServerConfig       `koanf:"server"`
	Logger      LoggerConfig       `koanf:"logger"`
	Store       StoreConfig        `koanf:"store"`
	Database    DatabaseConfig     `koanf:"database"`
	Idempotency IdempotencyConfig  `koanf:"idempotency"`
	Redis       RedisConfig        `koanf:"redis"`
	Kafka       KafkaConfig        `koanf:"kafka"`
	Telemetry   TelemetryConfig    `koanf:"telemetry"`
	Worker      WorkerConfig       `koanf:"worker"`
	HTTPClient  HTTPClientConfig   `koanf:"http_client"`
	Gateways    GatewayCredentials `koanf:"gateways"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

type LoggerConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
}

type StoreConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=memory postgres"`
}

// DatabaseConfig is only validated when the postgres store is selected.
type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

type IdempotencyConfig struct {
	Driver string        `koanf:"driver" validate:"required,oneof=memory redis"`
	TTL    time.Duration `koanf:"ttl" validate:"required"`
}

// RedisConfig is only validated when the redis idempotency store is selected.
type RedisConfig struct {
	Addr     string `koanf:"addr" validate:"required"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// KafkaConfig with no brokers selects the log publisher.
type KafkaConfig struct {
	Brokers string `koanf:"brokers"`
	Topic   string `koanf:"topic" validate:"required_with=Brokers"`
}

// TelemetryConfig with no endpoint leaves tracing on the no-op provider.
type TelemetryConfig struct {
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	ServiceName  string `koanf:"service_name"`
	Insecure     bool   `koanf:"insecure"`
}

type WorkerConfig struct {
	Interval   time.Duration `koanf:"interval" validate:"required"`
	PendingTTL time.Duration `koanf:"pending_ttl" validate:"required"`
	BatchSize  int           `koanf:"batch_size" validate:"required,min=1"`
}

type HTTPClientConfig struct {
	Timeout         time.Duration `koanf:"timeout" validate:"required"`
	StatusRetries   int           `koanf:"status_retries" validate:"min=0"`
	StatusBaseDelay time.Duration `koanf:"status_base_delay"`
}

// LoadConfig reads ORCHESTRATOR_* variables (and a .env file when present).
// Nested keys use a double underscore: ORCHESTRATOR_SERVER__PORT.
func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	if err := mainConfig.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// Validate checks the process settings. Gateway credentials are left to
// ValidateCredentials so a missing family only disables that family.
func (c *Config) Validate() error {
	validate := validator.New()

	sections := []any{&c.Primary, &c.Server, &c.Logger, &c.Store, &c.Idempotency, &c.Kafka, &c.Worker, &c.HTTPClient}
	if c.Store.Driver == "postgres" {
		sections = append(sections, &c.Database)
	}
	if c.Idempotency.Driver == "redis" {
		sections = append(sections, &c.Redis)
	}

	for _, section := range sections {
		if err := validate.Struct(section); err != nil {
			return err
		}
	}
	return nil
}

// NewLogger builds the process logger from the logger section.
func (c LoggerConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if c.Level != "" {
		if err := level.UnmarshalText([]byte(c.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
