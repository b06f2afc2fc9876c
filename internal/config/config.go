// Package config loads process configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	ListenAddr      string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	StoreMaxRetries int
}

func Default() Config {
	return Config{
		ListenAddr:      "127.0.0.1:3000",
		RedisAddr:       "localhost:6379",
		StoreMaxRetries: 10,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("LISTEN_ADDR"); raw != "" {
		cfg.ListenAddr = raw
	}
	if raw := os.Getenv("REDIS_ADDR"); raw != "" {
		cfg.RedisAddr = raw
	}
	if raw := os.Getenv("REDIS_PASSWORD"); raw != "" {
		cfg.RedisPassword = raw
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.RedisDB = value
		}
	}
	if raw := os.Getenv("STORE_MAX_RETRIES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.StoreMaxRetries = value
		}
	}
	return cfg
}
