package infrastructure

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// Shared secret for the scheduled trigger endpoint
	CronSecret string `json:"-"` // Don't expose in JSON

	// Postgres connection string
	DatabaseURL string `json:"-"` // Don't expose in JSON

	// DeepSeek API settings
	DeepSeekAPIURL string `json:"deepseek_api_url"`
	DeepSeekAPIKey string `json:"-"` // Don't expose in JSON

	// Minimax TTS settings
	MinimaxAPIKey  string `json:"-"` // Don't expose in JSON
	MinimaxGroupID string `json:"minimax_group_id"`

	// Bucket for synthesized audio files
	AudioBucket string `json:"audio_bucket"`

	// Cron expression for scheduled pipeline runs
	FetchSchedule string `json:"fetch_schedule"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		Host:           getEnvOrDefault("HOST", "0.0.0.0"),
		CronSecret:     getEnvOrDefault("CRON_SECRET", ""),
		DatabaseURL:    getEnvOrDefault("DATABASE_URL", ""),
		DeepSeekAPIURL: getEnvOrDefault("DEEPSEEK_API_URL", "https://api.deepseek.com/v1"),
		DeepSeekAPIKey: getEnvOrDefault("DEEPSEEK_API_KEY", ""),
		MinimaxAPIKey:  getEnvOrDefault("MINIMAX_API_KEY", ""),
		MinimaxGroupID: getEnvOrDefault("MINIMAX_GROUP_ID", ""),
		AudioBucket:    getEnvOrDefault("AUDIO_BUCKET", "ai-news-audio"),
		FetchSchedule:  getEnvOrDefault("FETCH_SCHEDULE", "0 * * * *"),
	}

	return config, config.validate()
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return &ConfigError{Field: "DATABASE_URL", Message: "Postgres connection string is required"}
	}
	if c.DeepSeekAPIKey == "" {
		return &ConfigError{Field: "DEEPSEEK_API_KEY", Message: "DeepSeek API key is required"}
	}
	if c.MinimaxAPIKey == "" {
		return &ConfigError{Field: "MINIMAX_API_KEY", Message: "Minimax API key is required"}
	}
	if c.MinimaxGroupID == "" {
		return &ConfigError{Field: "MINIMAX_GROUP_ID", Message: "Minimax group ID is required"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
