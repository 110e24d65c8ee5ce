package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8085"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
}

type Database struct {
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"10"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"30m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"5m"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type Cache struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
	CatalogTTL time.Duration `yaml:"catalog_ttl" env:"CACHE_CATALOG_TTL" env-default:"1m"`
}

type Session struct {
	CartTTL time.Duration `yaml:"cart_ttl" env:"SESSION_CART_TTL" env-default:"24h"`
}

type Submission struct {
	Timeout             time.Duration `yaml:"timeout" env:"SUBMISSION_TIMEOUT" env-default:"5s"`
	LockTTL             time.Duration `yaml:"lock_ttl" env:"SUBMISSION_LOCK_TTL" env-default:"10s"`
	RevalidateTimeout   time.Duration `yaml:"revalidate_timeout" env:"SUBMISSION_REVALIDATE_TIMEOUT" env-default:"2s"`
	IdempotencyTTL      time.Duration `yaml:"idempotency_ttl" env:"SUBMISSION_IDEMPOTENCY_TTL" env-default:"24h"`
	MaxRetries          int           `yaml:"max_retries" env:"SUBMISSION_MAX_RETRIES" env-default:"2"`
	BreakerFailures     int           `yaml:"breaker_failures" env:"SUBMISSION_BREAKER_FAILURES" env-default:"5"`
	BreakerOpenTimeout  time.Duration `yaml:"breaker_open_timeout" env:"SUBMISSION_BREAKER_OPEN_TIMEOUT" env-default:"30s"`
	ReceiptEmailEnabled bool          `yaml:"receipt_email" env:"SUBMISSION_RECEIPT_EMAIL" env-default:"false"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"1m"`
}

type Catalog struct {
	Source string `yaml:"source" env:"CATALOG_SOURCE" env-default:"static"`
}

type Events struct {
	Driver   string   `yaml:"driver" env:"EVENTS_DRIVER" env-default:"none"`
	Brokers  []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic    string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"orders.submitted"`
	AMQPURL  string   `yaml:"amqp_url" env:"AMQP_URL"`
	Exchange string   `yaml:"exchange" env:"AMQP_EXCHANGE" env-default:"orders"`
}

type SendGrid struct {
	APIKey    string `yaml:"API_KEY" env:"SENDGRID_API_KEY"`
	FromEmail string `yaml:"FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"orders@beatbuddy.local"`
	FromName  string `yaml:"FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"BeatBuddy Sales"`
	ReceiptTo string `yaml:"RECEIPT_TO" env:"SENDGRID_RECEIPT_TO"`
}

type OTel struct {
	Enabled          bool    `yaml:"ENABLED" env:"OTEL_ENABLED" env-default:"false"`
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"beatbuddy-sales-pro"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4318"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type Migrations struct {
	RunOnStart bool `yaml:"run_on_start" env:"MIGRATIONS_RUN_ON_START" env-default:"true"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	Cache        Cache        `yaml:"cache"`
	Session      Session      `yaml:"session"`
	Submission   Submission   `yaml:"submission"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Catalog      Catalog      `yaml:"catalog"`
	Events       Events       `yaml:"events"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	OTel         OTel         `yaml:"otel"`
	Migrations   Migrations   `yaml:"migrations"`
}

var ErrConfigNotFound = errors.New("config file does not exist")

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "path to the yaml config file")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			configPath = "./config/local.yaml"
		}
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not read config: %s", err.Error())
	}

	return cfg
}

// LoadConfigFromPath reads the yaml file at path and applies env overrides.
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case "static", "postgres":
	default:
		return fmt.Errorf("catalog.source must be static or postgres, got %q", c.Catalog.Source)
	}

	switch c.Events.Driver {
	case "none", "kafka", "rabbitmq":
	default:
		return fmt.Errorf("events.driver must be none, kafka or rabbitmq, got %q", c.Events.Driver)
	}

	if c.Events.Driver == "kafka" && len(c.Events.Brokers) == 0 {
		return errors.New("events.brokers is required for the kafka driver")
	}

	if c.Events.Driver == "rabbitmq" && c.Events.AMQPURL == "" {
		return errors.New("events.amqp_url is required for the rabbitmq driver")
	}

	if c.Submission.Timeout <= 0 {
		return errors.New("submission.timeout must be positive")
	}

	// an expired lock would let a second submission in mid-flight
	if c.Submission.LockTTL <= c.Submission.Timeout+c.Submission.RevalidateTimeout {
		return fmt.Errorf("submission.lock_ttl (%s) must exceed timeout plus revalidate_timeout (%s)",
			c.Submission.LockTTL, c.Submission.Timeout+c.Submission.RevalidateTimeout)
	}

	return nil
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s", r.Username, r.Password, r.Host, r.Port)
}

func (r *RedisConnect) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}
