package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	DBPath      string
	DBDriver    string
	WatchDBFile bool

	SpeechProvider string
	SpeechAPIKey   string
	SpeechAPIURL   string
	SpeechLanguage string
	OpenAIAPIKey   string

	CategoriesFile string
	CORSOrigins    string
}

var AppConfig *Config

// Load reads .env (if present) and the environment into AppConfig.
func Load() *Config {
	_ = godotenv.Load()

	AppConfig = FromEnv()
	return AppConfig
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	cfg := &Config{
		Port:     GetEnv("PORT", "3000"),
		Env:      GetEnv("ENV", "development"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),

		DBPath:      GetEnv("DB_PATH", "./data/catatin.db"),
		DBDriver:    GetEnv("DB_DRIVER", "sqlite3"),
		WatchDBFile: GetBoolEnv("WATCH_DB_FILE", false),

		SpeechProvider: strings.ToLower(GetEnv("SPEECH_PROVIDER", "google")),
		SpeechAPIKey:   GetEnv("SPEECH_API_KEY", ""),
		SpeechAPIURL:   GetEnv("SPEECH_API_URL", ""),
		SpeechLanguage: GetEnv("SPEECH_LANGUAGE", "id-ID"),
		OpenAIAPIKey:   GetEnv("OPENAI_API_KEY", ""),

		CategoriesFile: GetEnv("CATEGORIES_FILE", ""),
		CORSOrigins:    GetEnv("CORS_ORIGINS", "*"),
	}

	// OPENAI_API_KEY doubles as the speech key for the openai provider
	if cfg.SpeechProvider == "openai" && cfg.SpeechAPIKey == "" {
		cfg.SpeechAPIKey = cfg.OpenAIAPIKey
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBoolEnv parses 1/0, true/false and the like; anything else yields the default.
func GetBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
