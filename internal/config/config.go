package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	Collector CollectorConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	YouTube   YouTubeConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

type CollectorConfig struct {
	// DuplicatePolicy is either "replace" (wipe a region's history before
	// collecting) or "skip" (refuse to re-collect a region/day with data).
	DuplicatePolicy string        `envconfig:"COLLECTOR_DUPLICATE_POLICY" default:"replace"`
	PacingDelay     time.Duration `envconfig:"COLLECTOR_PACING_DELAY" default:"5s"`
	MaxResults      int64         `envconfig:"COLLECTOR_MAX_RESULTS" default:"50"`
	TrendingLimit   int           `envconfig:"COLLECTOR_TRENDING_LIMIT" default:"50"`
	CacheTTL        time.Duration `envconfig:"COLLECTOR_CACHE_TTL" default:"1h"`
	ShutdownTimeout time.Duration `envconfig:"COLLECTOR_SHUTDOWN_TIMEOUT" default:"30s"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"trendwatch"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"trendwatch"`
	DBName   string `envconfig:"POSTGRES_DB" default:"trendwatch"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RabbitMQConfig struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"trendwatch"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"trendwatch"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

type YouTubeConfig struct {
	// APIKey authenticates requests against the YouTube Data API.
	APIKey  string        `envconfig:"YOUTUBE_API_KEY" required:"true"`
	Timeout time.Duration `envconfig:"YOUTUBE_TIMEOUT" default:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
