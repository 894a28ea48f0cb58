package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/zepome/news-discord-bot/internal/app"
	"github.com/zepome/news-discord-bot/internal/config"
	"github.com/zepome/news-discord-bot/internal/discord"
	"github.com/zepome/news-discord-bot/internal/drivelog"
	"github.com/zepome/news-discord-bot/internal/feeds"
	"github.com/zepome/news-discord-bot/internal/gemini"
	"github.com/zepome/news-discord-bot/internal/history"
	"github.com/zepome/news-discord-bot/internal/logger"
	"github.com/zepome/news-discord-bot/internal/metrics"
	"github.com/zepome/news-discord-bot/internal/sentiment"
)

func main() {
	// Local runs keep secrets in .env; the scheduler injects real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger.Init(cfg.Debug)

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	ctx := context.Background()

	feedCfg, err := feeds.LoadConfig(cfg.FeedsConfigPath)
	if err != nil {
		logger.Error("failed to load feeds config", "path", cfg.FeedsConfigPath, "error", err)
		os.Exit(1)
	}

	store, err := openHistory(cfg)
	if err != nil {
		logger.Error("failed to open posted history", "backend", cfg.HistoryBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ai, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		logger.Error("failed to create Gemini client", "error", err)
		os.Exit(1)
	}
	defer ai.Close()

	poster := discord.New(cfg.DiscordWebhookURL, cfg.RequestTimeout, cfg.RetryAttempts, cfg.RetryDelay)

	var journal app.Journal
	if cfg.DriveFolderID != "" && cfg.DriveCredentialsJSON != "" {
		j, err := drivelog.New(ctx, cfg.DriveCredentialsJSON, cfg.DriveFolderID, cfg.DriveLogFile)
		if err != nil {
			// A broken run log should not stop the posts themselves.
			logger.Warn("Drive log disabled", "error", err)
		} else {
			journal = j
		}
	}

	var comments app.CommentCollector
	if cfg.EnableSentiment {
		comments = sentiment.NewCollector(cfg.RequestTimeout)
	}

	bot := app.New(cfg, feedCfg, store, ai, poster, journal, comments)
	if err := bot.Run(ctx); err != nil {
		metrics.Global.SetError(err.Error())
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func openHistory(cfg *config.Config) (history.Store, error) {
	if cfg.HistoryBackend == "postgres" {
		return history.NewPostgresStore(cfg.DatabaseURL, cfg.HistoryTTLHours)
	}

	fs := history.NewFileStore(cfg.HistoryFilePath, cfg.HistoryTTLHours)
	if err := fs.Load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	log.Printf("Starting monitoring server on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Printf("Monitoring server error: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
