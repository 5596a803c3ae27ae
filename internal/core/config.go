package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the main configuration for Inspire Bytes
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Auth     AuthConfig     `json:"auth"`
	Redis    RedisConfig    `json:"redis"`
	Features FeatureConfig  `json:"features"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// DatabaseConfig contains database-related configuration
type DatabaseConfig struct {
	Path string `json:"path"`
}

// AuthConfig contains authentication-related configuration
type AuthConfig struct {
	JWTSecret  string        `json:"-"`
	TokenTTL   time.Duration `json:"token_ttl"`
	LoginRate  float64       `json:"login_rate"`
	LoginBurst int           `json:"login_burst"`
}

// RedisConfig configures the optional token blacklist backend.
// An empty Addr means the in-memory blacklist is used.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

// FeatureConfig contains feature-specific configuration
type FeatureConfig struct {
	Blog BlogConfig `json:"blog"`
}

// BlogConfig contains blog configuration
type BlogConfig struct {
	Enabled     bool   `json:"enabled"`
	ArticlesURL string `json:"articles_url"`
	TimeZone    string `json:"time_zone"`
	DateLayout  string `json:"date_layout"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("IB_PORT", 4000),
			Host: getEnvOrDefault("IB_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Path: getEnvOrDefault("IB_DB_PATH", "./inspire-bytes.db"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnvOrDefault("IB_JWT_SECRET", ""),
			TokenTTL:   getEnvAsDuration("IB_TOKEN_TTL", 24*time.Hour),
			LoginRate:  getEnvAsFloat("IB_LOGIN_RATE", 1),
			LoginBurst: getEnvAsInt("IB_LOGIN_BURST", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("IB_REDIS_ADDR", ""),
			Password: getEnvOrDefault("IB_REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("IB_REDIS_DB", 0),
		},
		Features: FeatureConfig{
			Blog: BlogConfig{
				Enabled:     getEnvAsBool("IB_ENABLE_BLOG", true),
				ArticlesURL: getEnvOrDefault("IB_ARTICLES_URL", ""),
				TimeZone:    getEnvOrDefault("IB_TIMEZONE", "Asia/Shanghai"),
				DateLayout:  getEnvOrDefault("IB_DATE_LAYOUT", "2006/1/2 15:04:05"),
			},
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return NewConfigurationError(fmt.Sprintf("invalid server port: %d", c.Server.Port), nil)
	}

	if c.Database.Path == "" {
		return NewConfigurationError("database path is required", nil)
	}

	if c.Auth.JWTSecret == "" {
		return NewConfigurationError("IB_JWT_SECRET is required", nil)
	}

	if c.Auth.TokenTTL <= 0 {
		return NewConfigurationError("token TTL must be positive", nil)
	}

	if c.Auth.LoginRate <= 0 || c.Auth.LoginBurst < 1 {
		return NewConfigurationError("login rate and burst must be positive", nil)
	}

	if c.Features.Blog.Enabled {
		if _, err := time.LoadLocation(c.Features.Blog.TimeZone); err != nil {
			return NewConfigurationError("invalid blog time zone "+c.Features.Blog.TimeZone, err)
		}
		if c.Features.Blog.DateLayout == "" {
			return NewConfigurationError("blog date layout is required", nil)
		}
	}

	return nil
}

// IsFeatureEnabled checks if a feature is enabled
func (c *Config) IsFeatureEnabled(featureName string) bool {
	switch strings.ToLower(featureName) {
	case "blog":
		return c.Features.Blog.Enabled
	default:
		return false
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}
