// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds configuration for every service binary in the platform. Each
// binary reads the same file/env surface and picks the fields it needs.
type Config struct {
	Env        string `mapstructure:"APP_ENV"`
	JWTSecret  string `mapstructure:"JWT_SECRET"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	RedisURL   string `mapstructure:"REDIS_URL"`

	// Redis connection pool sizing. The cache degrades to a no-op when Redis
	// is unreachable, so these only tune the healthy path.
	RedisPoolSize     int `mapstructure:"REDIS_POOL_SIZE"`
	RedisMinIdleConns int `mapstructure:"REDIS_MIN_IDLE_CONNS"`

	GatewayPort string `mapstructure:"GATEWAY_PORT"`
	BlogPort    string `mapstructure:"BLOG_PORT"`
	CommentPort string `mapstructure:"COMMENT_PORT"`
	AuthPort    string `mapstructure:"AUTH_PORT"`

	// Base URLs the services use to reach each other. The gateway proxies to
	// all three; the comment service calls the blog service's counter
	// endpoints and vice versa for bulk comment cleanup.
	BlogServiceURL    string `mapstructure:"BLOG_SERVICE_URL"`
	CommentServiceURL string `mapstructure:"COMMENT_SERVICE_URL"`
	AuthServiceURL    string `mapstructure:"AUTH_SERVICE_URL"`

	// RemoteCallTimeout bounds every cross-service HTTP call.
	RemoteCallTimeout time.Duration `mapstructure:"REMOTE_CALL_TIMEOUT"`

	// PostCacheTTL and PostListCacheTTL bound cache staleness when an
	// eviction is missed; they are not relied on for correctness.
	PostCacheTTL     time.Duration `mapstructure:"POST_CACHE_TTL"`
	PostListCacheTTL time.Duration `mapstructure:"POST_LIST_CACHE_TTL"`

	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampler  float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads configuration from config.yml and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; env vars and defaults are enough.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			log.Printf("No profile-specific config.%s.yml found, using base config and env", env)
		}
	}

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "newwek")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	viper.SetDefault("GATEWAY_PORT", "8080")
	viper.SetDefault("BLOG_PORT", "8081")
	viper.SetDefault("COMMENT_PORT", "8082")
	viper.SetDefault("AUTH_PORT", "8083")
	viper.SetDefault("BLOG_SERVICE_URL", "http://localhost:8081")
	viper.SetDefault("COMMENT_SERVICE_URL", "http://localhost:8082")
	viper.SetDefault("AUTH_SERVICE_URL", "http://localhost:8083")
	viper.SetDefault("REMOTE_CALL_TIMEOUT", "5s")
	viper.SetDefault("POST_CACHE_TTL", "30m")
	viper.SetDefault("POST_LIST_CACHE_TTL", "10m")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures required values are present and sane for the environment.
func (c *Config) Validate() error {
	if c.BlogPort == "" || c.CommentPort == "" || c.AuthPort == "" || c.GatewayPort == "" {
		return errors.New("service ports are required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.RemoteCallTimeout <= 0 {
		return errors.New("REMOTE_CALL_TIMEOUT must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
