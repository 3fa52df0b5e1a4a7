package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	Env             string
	PostgresHost    string
	PostgresPort    string
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	RedisURL        string
	JWTSecret       string
	StoreTimeout    time.Duration
	ProductCacheTTL time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	return Config{
		Port:            getEnv("PORT", "8085"),
		Env:             getEnv("APP_ENV", "development"),
		PostgresHost:    getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:    getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:    getEnv("POSTGRES_USER", "postgres"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:      getEnv("POSTGRES_DB", "shreycommerse"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		StoreTimeout:    getDurationMs("STORE_TIMEOUT_MS", 3000),
		ProductCacheTTL: getDurationMs("PRODUCT_CACHE_TTL_MS", 5*60*1000),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDurationMs(key string, defaultMs int) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
		log.Printf("Warning: invalid %s=%q, using default", key, val)
	}
	return time.Duration(defaultMs) * time.Millisecond
}
