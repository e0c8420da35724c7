package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port string
	Dev  bool

	// DatabaseURL takes priority; with an empty URL the server falls
	// back to an embedded sqlite file at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	GeminiAPIKey     string
	GeminiModel      string
	VisionTimeoutSec int

	TelegramBotToken string
	WebhookURL       string
	DefaultLanguage  string
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8000"),
		Dev:  getEnv("DEV", "") != "",

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "cropdoc.db"),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		VisionTimeoutSec: getEnvInt("VISION_TIMEOUT_SEC", 30),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
		DefaultLanguage:  getEnv("DEFAULT_LANGUAGE", "en"),
	}
}

// MustTelegramToken is for the bot entrypoint, where the token is not
// optional.
func (c *Config) MustTelegramToken() string {
	if c.TelegramBotToken == "" {
		return mustEnv("TELEGRAM_BOT_TOKEN")
	}
	return c.TelegramBotToken
}
