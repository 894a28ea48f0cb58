// Package discord posts formatted news messages to a channel webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/zepome/news-discord-bot/internal/retry"
)

const (
	botUsername  = "政治ニュースBot 🏛️"
	botAvatarURL = "https://cdn-icons-png.flaticon.com/512/3649/3649371.png"

	// Discord rejects messages above 2000 characters; stay under it.
	maxContentRunes = 1900
)

type Client struct {
	webhookURL string
	httpClient *http.Client
	retryCfg   retry.Config
}

func New(webhookURL string, timeout time.Duration, attempts int, delay time.Duration) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		retryCfg: retry.Config{
			MaxAttempts: attempts,
			Delay:       delay,
			Backoff:     true,
		},
	}
}

// Post sends one message to the webhook, retrying transient failures.
func (c *Client) Post(ctx context.Context, content string) error {
	runes := []rune(content)
	if len(runes) > maxContentRunes {
		content = string(runes[:maxContentRunes]) + "…"
	}

	return retry.Do(ctx, c.retryCfg, func() error {
		return c.postOnce(ctx, content)
	})
}

func (c *Client) postOnce(ctx context.Context, content string) error {
	payload := map[string]interface{}{
		"content":    content,
		"username":   botUsername,
		"avatar_url": botAvatarURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close webhook response body", "error", err)
		}
	}()

	// Webhooks answer 204 without ?wait, 200 with it.
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("discord webhook error: status %d", resp.StatusCode)
	}
	return nil
}
