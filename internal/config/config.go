// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Data        DataConfig
	Cache       CacheConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DataConfig struct {
	// Path is the local directory holding the CSV extracts. Ignored when an
	// S3 bucket is configured.
	Path         string
	S3Bucket     string
	S3Prefix     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

type CacheConfig struct {
	// ViewTTL bounds how long assembled sales views are reused before the
	// datasets are re-joined, in minutes.
	ViewTTL int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Data: DataConfig{
			Path:         getEnv("DATA_PATH", "ecommerce_data"),
			S3Bucket:     getEnv("DATA_S3_BUCKET", ""),
			S3Prefix:     getEnv("DATA_S3_PREFIX", ""),
			S3Region:     getEnv("AWS_REGION", "us-east-1"),
			AWSAccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			AWSSecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Cache: CacheConfig{
			ViewTTL: getEnvAsInt("VIEW_CACHE_TTL_MINUTES", 15),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Data.S3Bucket == "" && c.Data.Path == "" {
		return fmt.Errorf("either DATA_PATH or DATA_S3_BUCKET must be set")
	}

	if c.Cache.ViewTTL < 1 {
		return fmt.Errorf("VIEW_CACHE_TTL_MINUTES must be at least 1")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
