package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// BSE endpoints
	BaseURL string
	APIURL  string

	// Memcache configuration
	MemcacheAddr string

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Fetch behaviour
	RequestTimeout time.Duration
	RequestDelay   time.Duration
	BlockTime      time.Duration

	// Worker configuration
	Concurrency int
	OutputDir   string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	maxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	timeout, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "10"))
	delay, _ := strconv.Atoi(getEnv("REQUEST_DELAY_MS", "500"))
	blockTime, _ := strconv.Atoi(getEnv("BLOCK_SECONDS", "300"))
	concurrency, _ := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "1"))

	return Config{
		BaseURL:              getEnv("BSE_BASE_URL", "https://www.bseindia.com"),
		APIURL:               getEnv("BSE_API_URL", "https://api.bseindia.com"),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "bse_announcements"),
		RedisStreamMaxLength: maxLen,
		RequestTimeout:       time.Duration(timeout) * time.Second,
		RequestDelay:         time.Duration(delay) * time.Millisecond,
		BlockTime:            time.Duration(blockTime) * time.Second,
		Concurrency:          concurrency,
		OutputDir:            getEnv("OUTPUT_DIR", "."),
		Environment:          getEnv("BSE_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the worker cannot run with
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("BSE_BASE_URL must not be empty")
	}
	if c.APIURL == "" {
		return fmt.Errorf("BSE_API_URL must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request delay must not be negative, got %s", c.RequestDelay)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("worker concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
