package config

import (
	"os"

	"github.com/joho/godotenv"

	"fridgekeeper/logger"
)

// Load reads a .env file when one exists. Real environment variables
// always win over file values.
func Load() {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system env vars")
	}
}

// GetEnv returns the value of key or fallback when unset/empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
