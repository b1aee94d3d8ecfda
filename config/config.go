// Package config reads server settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	StoreBackend string
	MongoURI     string
	MongoDB      string
	RedisAddr    string
	CacheTTL     time.Duration
	JWTSecret    string
	StoreTimeout time.Duration
	RateLimit    float64
	SeedFile     string
	SessionIdle  time.Duration
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a getenv-style lookup.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	c := Config{
		Port:         get("PORT", ":8080"),
		StoreBackend: get("STORE_BACKEND", "memory"),
		MongoURI:     get("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      get("MONGO_DB", "farmhand"),
		RedisAddr:    getenv("REDIS_ADDR"),
		JWTSecret:    getenv("JWT_SECRET"),
		SeedFile:     getenv("SEED_FILE"),
	}
	if c.Port[0] != ':' {
		c.Port = ":" + c.Port
	}
	if c.StoreBackend != "memory" && c.StoreBackend != "mongo" {
		return Config{}, fmt.Errorf("STORE_BACKEND must be memory or mongo, got %q", c.StoreBackend)
	}
	if c.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	if c.CacheTTL, err = time.ParseDuration(get("CACHE_TTL", "2h")); err != nil {
		return Config{}, fmt.Errorf("CACHE_TTL: %w", err)
	}
	if c.StoreTimeout, err = time.ParseDuration(get("STORE_TIMEOUT", "0s")); err != nil {
		return Config{}, fmt.Errorf("STORE_TIMEOUT: %w", err)
	}
	if c.SessionIdle, err = time.ParseDuration(get("SESSION_IDLE", "30m")); err != nil {
		return Config{}, fmt.Errorf("SESSION_IDLE: %w", err)
	}
	if c.RateLimit, err = strconv.ParseFloat(get("RATE_LIMIT", "5"), 64); err != nil || c.RateLimit <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT must be a positive number, got %q", getenv("RATE_LIMIT"))
	}
	return c, nil
}
