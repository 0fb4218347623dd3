package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds application configuration values.
type Config struct {
	Secret        string
	DatabaseDSN   string
	HTTPPort      string
	AllowedOrigin string
}

// Load reads configuration from environment variables with reasonable
// defaults. An empty DATABASE_DSN selects the in-memory store.
func Load() Config {
	secret := getEnv("SECRET", "dev_secret")
	port := getEnv("HTTP_PORT", "8080")
	origin := getEnv("ALLOWED_ORIGIN", "*")
	dsn := os.Getenv("DATABASE_DSN")

	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	return Config{Secret: secret, DatabaseDSN: dsn, HTTPPort: port, AllowedOrigin: origin}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
