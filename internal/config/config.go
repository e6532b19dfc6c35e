package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Notion integration
	NotionAPIKey     string
	NotionDatabaseID string
	NotionBaseURL    string
	// Chat widget
	AnthropicAPIKey string
	ChatModel       string
	// Search widget
	TavilyAPIKey string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// Notion integration
		NotionAPIKey:     getEnv("NOTION_API_KEY", ""),
		NotionDatabaseID: getEnv("NOTION_DATABASE_ID", ""),
		NotionBaseURL:    getEnv("NOTION_BASE_URL", "https://api.notion.com/v1"),
		// Chat widget
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		ChatModel:       getEnv("CHAT_MODEL", "claude-haiku-4-5-20251001"),
		// Search widget
		TavilyAPIKey: getEnv("TAVILY_API_KEY", ""),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
