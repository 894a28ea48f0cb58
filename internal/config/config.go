package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Discord settings
	DiscordWebhookURL string

	// Gemini settings
	GeminiAPIKey   string
	ScoreThreshold int // minimal political relevance score to post
	MaxAIRequests  int // scoring calls per run (0 = unlimited)

	// Posting policy
	MaxPosts int // posts per run

	// History (deduplication) settings
	HistoryBackend  string // "file" or "postgres"
	HistoryFilePath string
	HistoryTTLHours int
	DatabaseURL     string

	// Feeds settings
	FeedsConfigPath string
	MaxItemsPerFeed int

	// Active window: the bot only posts between these local hours.
	ActiveHoursStart int
	ActiveHoursEnd   int
	Timezone         string

	// Drive run log (disabled when folder ID is empty)
	DriveCredentialsJSON string // path to the service-account JSON
	DriveFolderID        string
	DriveLogFile         string

	// Sentiment analysis of Yahoo! news comments
	EnableSentiment bool

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		ScoreThreshold:   70,
		MaxAIRequests:    10,
		MaxPosts:         3,
		HistoryBackend:   "file",
		HistoryFilePath:  "posted_news_history.json",
		HistoryTTLHours:  24,
		FeedsConfigPath:  "configs/feeds.yaml",
		MaxItemsPerFeed:  20,
		ActiveHoursStart: 7,
		ActiveHoursEnd:   23,
		Timezone:         "Asia/Tokyo",
		DriveLogFile:     "news_log.txt",
		RequestTimeout:   30 * time.Second,
		RetryAttempts:    3,
		RetryDelay:       5 * time.Second,
	}

	// Load from environment
	cfg.DiscordWebhookURL = os.Getenv("DISCORD_WEBHOOK_URL")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.DriveCredentialsJSON = os.Getenv("DRIVE_CREDENTIALS_JSON")
	cfg.DriveFolderID = os.Getenv("DRIVE_FOLDER_ID")

	cfg.HistoryBackend = getEnvOrDefault("HISTORY_BACKEND", cfg.HistoryBackend)
	cfg.HistoryFilePath = getEnvOrDefault("HISTORY_FILE", cfg.HistoryFilePath)
	cfg.HistoryTTLHours = getEnvIntOrDefault("HISTORY_TTL_HOURS", cfg.HistoryTTLHours)
	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.DriveLogFile = getEnvOrDefault("DRIVE_LOG_FILE", cfg.DriveLogFile)
	cfg.Timezone = getEnvOrDefault("TIMEZONE", cfg.Timezone)

	if v := os.Getenv("SCORE_THRESHOLD"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 && val <= 100 {
			cfg.ScoreThreshold = val
		}
	}
	if v := os.Getenv("MAX_POSTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.MaxPosts = val
		}
	}
	if v := os.Getenv("MAX_AI_REQUESTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.MaxAIRequests = val
		}
	}
	if v := os.Getenv("MAX_ITEMS_PER_FEED"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.MaxItemsPerFeed = val
		}
	}
	if v := os.Getenv("ACTIVE_HOURS_START"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 && val <= 23 {
			cfg.ActiveHoursStart = val
		}
	}
	if v := os.Getenv("ACTIVE_HOURS_END"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 && val <= 24 {
			cfg.ActiveHoursEnd = val
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("RETRY_ATTEMPTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RetryAttempts = val
		}
	}
	if v := os.Getenv("RETRY_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RetryDelay = d
		}
	}

	if os.Getenv("ENABLE_SENTIMENT") == "true" {
		cfg.EnableSentiment = true
	}
	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.DiscordWebhookURL == "" {
		return fmt.Errorf("DISCORD_WEBHOOK_URL is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.HistoryBackend != "file" && c.HistoryBackend != "postgres" {
		return fmt.Errorf("HISTORY_BACKEND must be 'file' or 'postgres'")
	}
	if c.HistoryBackend == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres history backend")
	}
	if c.HistoryTTLHours <= 0 {
		return fmt.Errorf("HISTORY_TTL_HOURS must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured timezone. Validate guarantees it parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
