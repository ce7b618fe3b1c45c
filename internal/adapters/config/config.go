package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"stockai/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	AI            AIConfig
	DataSources   DataSourceConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"stockai"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type ServerConfig struct {
	Port         int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	GroupID string   `envconfig:"KAFKA_GROUP_ID" default:"stockai"`
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
}

type AIConfig struct {
	GeminiKey       string        `envconfig:"GEMINI_API_KEY"`
	OpenAIKey       string        `envconfig:"OPENAI_API_KEY"`
	DefaultProvider string        `envconfig:"DEFAULT_AI_PROVIDER" default:"gemini"`
	GeminiModel     string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	OpenAIModel     string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	RequestTimeout  time.Duration `envconfig:"AI_REQUEST_TIMEOUT" default:"15s"`
}

// DataSourceConfig holds API credentials for external market data providers.
// Every key is optional: an agent without credentials serves mock data.
type DataSourceConfig struct {
	NewsAPIKey         string        `envconfig:"NEWS_API_KEY"`
	DartAPIKey         string        `envconfig:"DART_API_KEY"`
	RedditClientID     string        `envconfig:"REDDIT_CLIENT_ID"`
	RedditClientSecret string        `envconfig:"REDDIT_CLIENT_SECRET"`
	RedditUserAgent    string        `envconfig:"REDDIT_USER_AGENT" default:"stockai/1.0"`
	FetchTimeout       time.Duration `envconfig:"SOURCE_FETCH_TIMEOUT" default:"5s"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains intervals for background workers
type WorkerConfig struct {
	PriceTrackerInterval time.Duration `envconfig:"WORKER_PRICE_TRACKER_INTERVAL" default:"30s"`
	PriceTrackerEnabled  bool          `envconfig:"WORKER_PRICE_TRACKER_ENABLED" default:"true"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
