package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	RobleBaseURL string
	RedisURL     string
	Environment  string

	// RefreshTTL is the default freshness window for controller re-fetches.
	RefreshTTL time.Duration

	// Session lifetimes in the session store, by keep-logged-in flag.
	SessionTTL          time.Duration
	SessionKeepAliveTTL time.Duration
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		RobleBaseURL:        getEnv("ROBLE_BASE_URL", "https://roble.example.com/api"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		RefreshTTL:          getDurationEnv("REFRESH_TTL", 30*time.Second),
		SessionTTL:          getDurationEnv("SESSION_TTL", 12*time.Hour),
		SessionKeepAliveTTL: getDurationEnv("SESSION_KEEP_ALIVE_TTL", 30*24*time.Hour),
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
