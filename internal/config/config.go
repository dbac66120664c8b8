package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUser            string
	DBPassword        string
	DBName            string
	DBHost            string
	DBPort            string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	BotToken          string
	PassportAPIURL    string
	PassportClientKey string
	GithubHookSecret  string
	ScoreAPIKey       string
	HTTPAddr          string
	AllowedHookCIDRs  []string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "builders_bot"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		BotToken:          getEnv("TELEGRAM_BOT_TOKEN", ""),
		PassportAPIURL:    getEnv("PASSPORT_API_URL", "https://api.zopassport.io/v1"),
		PassportClientKey: getEnv("PASSPORT_CLIENT_KEY", ""),
		GithubHookSecret:  getEnv("GITHUB_WEBHOOK_SECRET", ""),
		ScoreAPIKey:       getEnv("SCORE_API_KEY", ""),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		AllowedHookCIDRs:  splitList(getEnv("ALLOWED_HOOK_CIDRS", "")),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// splitList parses a comma-separated env value, skipping blank entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
