package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Env  string
	Port string

	RedisURL  string
	RedisPass string
	RedisDB   int

	BotToken    string
	BotUsername string

	// Chat that receives withdrawal request notifications.
	WithdrawalChatID string

	JWTSecret string

	// Rewarded-ad confirmation endpoint. Empty disables the ad step.
	AdEndpoint string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		RedisURL:         getEnv("REDIS_URL", "localhost:6379"),
		RedisPass:        getEnv("REDIS_PASSWORD", ""),
		BotToken:         os.Getenv("BOT_TOKEN"),
		BotUsername:      getEnv("BOT_USERNAME", "Skyllor_bot"),
		WithdrawalChatID: os.Getenv("WITHDRAWAL_CHAT_ID"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret-change-me"),
		AdEndpoint:       os.Getenv("AD_ENDPOINT"),
	}

	dbStr := getEnv("REDIS_DB", "0")
	db, err := strconv.Atoi(dbStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value %q: %v", dbStr, err)
	}
	cfg.RedisDB = db

	if cfg.Env == "production" {
		if cfg.BotToken == "" {
			return nil, fmt.Errorf("BOT_TOKEN is required in production")
		}
		if cfg.WithdrawalChatID == "" {
			return nil, fmt.Errorf("WITHDRAWAL_CHAT_ID is required in production")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
