package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   string
	APIKey string // optional shared secret for the dispatcher

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	DatabaseURL string

	TelegramBotToken string
	TutorAPIURL      string
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// MustHave aborts when a required value is missing. Each binary checks only
// the keys it cannot run without.
func MustHave(v, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func Load() *Config {
	// .env is optional; real env always wins
	_ = godotenv.Load()

	return &Config{
		Port:   getEnv("PORT", "8000"),
		APIKey: os.Getenv("API_KEY"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TutorAPIURL:      getEnv("TUTOR_API_URL", "http://127.0.0.1:8000"),
	}
}
