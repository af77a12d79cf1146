package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds all service configuration.
type Config struct {
	// Environment Configuration
	Environment EnvironmentConfig

	// Server Configuration
	Server ServerConfig
	Logger LoggerConfig

	// Storage Configuration
	Postgres PostgresConfig
	Redis    RedisConfig
	MinIO    MinIOConfig

	// WebSocket Configuration
	WebSocket WebSocketConfig

	// Analysis Engine Configuration
	Engine EngineConfig

	// Monitoring & Notification Configuration
	Discord DiscordConfig
}

// EnvironmentConfig is the configuration for the deployment environment.
type EnvironmentConfig struct {
	Name string `env:"ENVIRONMENT_NAME" envDefault:"production"`
}

// ServerConfig is the configuration for the HTTP server
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"8000"`
	Mode string `env:"SERVER_MODE" envDefault:"release"`

	// MaxUploadSize caps dataset uploads, in bytes. Defaults to 100MB.
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"104857600"`
}

// LoggerConfig is the configuration for the logger
type LoggerConfig struct {
	Level        string `env:"LOGGER_LEVEL" envDefault:"info"`
	Mode         string `env:"LOGGER_MODE" envDefault:"production"`
	Encoding     string `env:"LOGGER_ENCODING" envDefault:"json"`
	ColorEnabled bool   `env:"LOGGER_COLOR_ENABLED" envDefault:"false"`
}

// PostgresConfig is the configuration for PostgreSQL
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	DBName   string `env:"POSTGRES_DB" envDefault:"aibi"`
	SSLMode  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
}

// RedisConfig is the configuration for Redis
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	UseTLS   bool   `env:"REDIS_USE_TLS" envDefault:"false"`

	// Connection pool settings
	MaxRetries      int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	MinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"10"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"100"`
	PoolTimeout     time.Duration `env:"REDIS_POOL_TIMEOUT" envDefault:"4s"`
	ConnMaxIdleTime time.Duration `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// MinIOConfig is the configuration for MinIO object storage
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	Region    string `env:"MINIO_REGION"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"datasets"`
}

// WebSocketConfig is the configuration for WebSocket connections
type WebSocketConfig struct {
	PingInterval    time.Duration `env:"WS_PING_INTERVAL" envDefault:"30s"`
	PongWait        time.Duration `env:"WS_PONG_WAIT" envDefault:"60s"`
	WriteWait       time.Duration `env:"WS_WRITE_WAIT" envDefault:"10s"`
	MaxMessageSize  int64         `env:"WS_MAX_MESSAGE_SIZE" envDefault:"4096"`
	ReadBufferSize  int           `env:"WS_READ_BUFFER_SIZE" envDefault:"1024"`
	WriteBufferSize int           `env:"WS_WRITE_BUFFER_SIZE" envDefault:"1024"`
	MaxConnections  int           `env:"WS_MAX_CONNECTIONS" envDefault:"10000"`

	// Event channel pattern the notifier subscribes to
	EventPattern string `env:"WS_EVENT_PATTERN" envDefault:"bi_events:*"`
}

// EngineConfig is the configuration for the analysis engine HTTP API
type EngineConfig struct {
	BaseURL string        `env:"ENGINE_BASE_URL" envDefault:"http://localhost:11434"`
	Model   string        `env:"ENGINE_MODEL" envDefault:"llama3"`
	Timeout time.Duration `env:"ENGINE_TIMEOUT" envDefault:"120s"`
}

// DiscordConfig is the configuration for Discord webhook notifications
type DiscordConfig struct {
	WebhookID    string `env:"DISCORD_WEBHOOK_ID"`
	WebhookToken string `env:"DISCORD_WEBHOOK_TOKEN"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config from environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Redis.Host == "" {
		return fmt.Errorf("redis host is required")
	}
	if cfg.Redis.Port == 0 {
		return fmt.Errorf("redis port is required")
	}
	if cfg.Postgres.Host == "" {
		return fmt.Errorf("postgres host is required")
	}
	if cfg.MinIO.Endpoint == "" {
		return fmt.Errorf("minio endpoint is required")
	}
	if cfg.Engine.BaseURL == "" {
		return fmt.Errorf("engine base url is required")
	}
	return nil
}
