package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv         string
	HTTPPort       int
	DBDriver       string
	DBDSN          string
	RedisAddr      string
	CacheTTL       time.Duration
	JWTSecret      string
	CollegeName    string
	CollegeAddress string
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	portStr := getEnv("HTTP_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 8080
	}

	ttlStr := getEnv("CACHE_TTL_MINUTES", "10")
	ttlMinutes, err := strconv.Atoi(ttlStr)
	if err != nil || ttlMinutes <= 0 {
		ttlMinutes = 10
	}

	return &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		HTTPPort:       port,
		DBDriver:       getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:          getEnv("DB_DSN", "./data/feedback.db"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:       time.Duration(ttlMinutes) * time.Minute,
		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		CollegeName:    getEnv("COLLEGE_NAME", "Adhiyamaan College of Engineering"),
		CollegeAddress: getEnv("COLLEGE_ADDRESS", "Dr. M.G.R. Nagar, Hosur, Tamil Nadu 635130"),
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
