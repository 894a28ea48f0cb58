package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zepome/news-discord-bot/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/1/abc")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 70, cfg.ScoreThreshold)
	require.Equal(t, 3, cfg.MaxPosts)
	require.Equal(t, 10, cfg.MaxAIRequests)
	require.Equal(t, "file", cfg.HistoryBackend)
	require.Equal(t, "posted_news_history.json", cfg.HistoryFilePath)
	require.Equal(t, 24, cfg.HistoryTTLHours)
	require.Equal(t, "configs/feeds.yaml", cfg.FeedsConfigPath)
	require.Equal(t, 20, cfg.MaxItemsPerFeed)
	require.Equal(t, 7, cfg.ActiveHoursStart)
	require.Equal(t, 23, cfg.ActiveHoursEnd)
	require.Equal(t, "Asia/Tokyo", cfg.Timezone)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.False(t, cfg.EnableSentiment)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SCORE_THRESHOLD", "80")
	t.Setenv("MAX_POSTS", "5")
	t.Setenv("MAX_AI_REQUESTS", "4")
	t.Setenv("HISTORY_TTL_HOURS", "48")
	t.Setenv("ACTIVE_HOURS_START", "9")
	t.Setenv("ACTIVE_HOURS_END", "21")
	t.Setenv("REQUEST_TIMEOUT", "10s")
	t.Setenv("ENABLE_SENTIMENT", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 80, cfg.ScoreThreshold)
	require.Equal(t, 5, cfg.MaxPosts)
	require.Equal(t, 4, cfg.MaxAIRequests)
	require.Equal(t, 48, cfg.HistoryTTLHours)
	require.Equal(t, 9, cfg.ActiveHoursStart)
	require.Equal(t, 21, cfg.ActiveHoursEnd)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.True(t, cfg.EnableSentiment)
}

func TestLoadRejectsMissingWebhook(t *testing.T) {
	t.Setenv("DISCORD_WEBHOOK_URL", "")
	t.Setenv("GEMINI_API_KEY", "test-key")

	_, err := config.Load()
	require.ErrorContains(t, err, "DISCORD_WEBHOOK_URL")
}

func TestLoadRejectsMissingAPIKey(t *testing.T) {
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/1/abc")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := config.Load()
	require.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestLoadRejectsPostgresWithoutDatabaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("HISTORY_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	require.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	setRequired(t)
	t.Setenv("TIMEZONE", "Mars/Olympus")

	_, err := config.Load()
	require.ErrorContains(t, err, "TIMEZONE")
}

func TestLoadIgnoresInvalidOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SCORE_THRESHOLD", "200")
	t.Setenv("MAX_POSTS", "-1")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 70, cfg.ScoreThreshold)
	require.Equal(t, 3, cfg.MaxPosts)
}
