package main

import (
	"os"

	"github.com/joho/godotenv"
)

type config struct {
	Port          string
	Environment   string
	LogLevel      string
	RedisAddr     string
	RedisPassword string
}

func loadConfig() config {
	// Missing .env is fine; env vars may come from the shell.
	_ = godotenv.Load()

	return config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
