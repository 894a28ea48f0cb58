package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/zepome/news-discord-bot/internal/gemini"
	"github.com/zepome/news-discord-bot/internal/news"
)

// FormatMessage builds the Discord message for one scored item.
// Sentiment is optional and appended when comment analysis ran.
func FormatMessage(item news.ScoredItem, sentiment *gemini.Sentiment, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🏛️ **【政治】%s**\n", item.Title))
	b.WriteString("━━━━━━━━━━━━━━━━━━\n")
	b.WriteString(fmt.Sprintf("📰 **出典**: %s\n", item.Source))
	b.WriteString(fmt.Sprintf("🎯 **関連度**: %d点 %s\n", item.Score, Stars(item.Score)))
	b.WriteString(fmt.Sprintf("⏰ **取得時刻**: %s\n", now.Format("15:04")))
	b.WriteString(fmt.Sprintf("🔗 %s\n", item.Link))

	if item.Commentary != "" {
		b.WriteString("\n━━━━━━━━━━━━━━━━━━\n")
		b.WriteString("🤖 **AIによる動向予測**\n\n")
		b.WriteString(item.Commentary)
		b.WriteString("\n")
	}

	if sentiment != nil {
		b.WriteString("\n━━━━━━━━━━━━━━━━━━\n")
		b.WriteString("📊 **世論の反応**\n")
		b.WriteString(fmt.Sprintf("👍 賛成: %d%% | 👎 反対: %d%% | 😐 中立: %d%%\n",
			sentiment.Positive, sentiment.Negative, sentiment.Neutral))
		b.WriteString(fmt.Sprintf("🌡️ 議論の熱量: %s (%d点)\n", heat(sentiment.Temperature), sentiment.Temperature))
		if sentiment.Summary != "" {
			b.WriteString(fmt.Sprintf("📝 %s\n", sentiment.Summary))
		}
	}

	return b.String()
}

// Stars maps a relevance score onto a one-to-five star rating.
func Stars(score int) string {
	switch {
	case score >= 90:
		return "⭐⭐⭐⭐⭐"
	case score >= 80:
		return "⭐⭐⭐⭐"
	case score >= 70:
		return "⭐⭐⭐"
	case score >= 60:
		return "⭐⭐"
	default:
		return "⭐"
	}
}

func heat(temperature int) string {
	fire := temperature / 20
	if fire > 5 {
		fire = 5
	}
	return strings.Repeat("🔥", fire) + strings.Repeat("⚪", 5-fire)
}
