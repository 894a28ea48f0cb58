// Package app wires the one-shot pipeline: fetch feeds, filter, score,
// deduplicate, post to Discord and journal the run.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/zepome/news-discord-bot/internal/cache"
	"github.com/zepome/news-discord-bot/internal/config"
	"github.com/zepome/news-discord-bot/internal/discord"
	"github.com/zepome/news-discord-bot/internal/drivelog"
	"github.com/zepome/news-discord-bot/internal/feeds"
	"github.com/zepome/news-discord-bot/internal/gemini"
	"github.com/zepome/news-discord-bot/internal/history"
	"github.com/zepome/news-discord-bot/internal/metrics"
	"github.com/zepome/news-discord-bot/internal/news"
	"github.com/zepome/news-discord-bot/internal/ratelimit"
)

// Scorer is the AI side of the pipeline.
type Scorer interface {
	AssessRelevance(ctx context.Context, title, description string) (int, string, error)
	GenerateCommentary(ctx context.Context, title, description string) (string, error)
	AnalyzeSentiment(ctx context.Context, title string, comments []string) (*gemini.Sentiment, error)
}

// Poster delivers one formatted message to the chat channel.
type Poster interface {
	Post(ctx context.Context, content string) error
}

// Journal records one log line per posted item on remote storage.
type Journal interface {
	Append(ctx context.Context, line string) error
}

// CommentCollector finds reader comments for a headline.
type CommentCollector interface {
	FindArticle(ctx context.Context, title string) (string, error)
	FetchComments(ctx context.Context, articleURL string) ([]string, error)
}

type App struct {
	cfg     *config.Config
	filter  *news.KeywordFilter
	sources []feeds.Source

	store    history.Store
	scorer   Scorer
	poster   Poster
	journal  Journal          // nil when Drive logging is not configured
	comments CommentCollector // nil when sentiment is disabled

	budget      *ratelimit.Budget
	assessments *cache.AssessmentCache

	fetch func(ctx context.Context) []news.Item
	now   func() time.Time
}

func New(cfg *config.Config, feedCfg *feeds.Config, store history.Store, scorer Scorer, poster Poster, journal Journal, comments CommentCollector) *App {
	fetcher := feeds.NewFetcher(cfg.MaxItemsPerFeed)

	return &App{
		cfg:         cfg,
		filter:      news.NewKeywordFilter(feedCfg.IncludeKeywords, feedCfg.ExcludeKeywords),
		sources:     feedCfg.Sources,
		store:       store,
		scorer:      scorer,
		poster:      poster,
		journal:     journal,
		comments:    comments,
		budget:      ratelimit.NewBudget(cfg.MaxAIRequests),
		assessments: cache.New(time.Duration(cfg.HistoryTTLHours) * time.Hour),
		fetch: func(ctx context.Context) []news.Item {
			return fetcher.FetchAll(ctx, feedCfg.Sources)
		},
		now: time.Now,
	}
}

// Run executes one pipeline pass. Per-item failures are logged and
// skipped; only history persistence errors are fatal, since losing the
// history would cause duplicate posts on the next run.
func (a *App) Run(ctx context.Context) error {
	start := a.now()
	local := start.In(a.cfg.Location())

	if !withinActiveWindow(local, a.cfg.ActiveHoursStart, a.cfg.ActiveHoursEnd) {
		slog.Info("outside active window, staying silent",
			"local_time", local.Format("15:04"),
			"window", a.cfg.ActiveHoursStart, "until", a.cfg.ActiveHoursEnd)
		return nil
	}

	items := a.fetch(ctx)
	metrics.Global.AddFeedItems(len(items))
	items = news.DedupeLinks(items)

	candidates := a.selectCandidates(items)
	slog.Info("candidates after keyword and history filters", "count", len(candidates))

	scored := a.scoreCandidates(ctx, candidates)
	news.SortByScore(scored)
	if len(scored) > a.cfg.MaxPosts {
		scored = scored[:a.cfg.MaxPosts]
	}

	posted := a.postItems(ctx, scored, local)

	if err := a.store.Flush(); err != nil {
		return err
	}

	metrics.Global.RecordRun(time.Since(start))
	slog.Info("run finished", "posted", posted, "ai_budget", a.budget.String(),
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// selectCandidates applies the keyword rules and drops items already
// posted inside the retention window.
func (a *App) selectCandidates(items []news.Item) []news.Item {
	var out []news.Item
	for _, it := range items {
		if !a.filter.Matches(it) {
			continue
		}
		metrics.Global.IncrementKeywordMatched()

		if a.store.Contains(history.Hash(it.Title, it.Link)) {
			slog.Debug("already posted, skipping", "title", it.Title)
			metrics.Global.IncrementDuplicatesSkipped()
			continue
		}
		out = append(out, it)
	}
	return out
}

// scoreCandidates asks the AI for a relevance verdict on each candidate
// until the request budget runs out. A failed call counts as below
// threshold rather than aborting the run.
func (a *App) scoreCandidates(ctx context.Context, candidates []news.Item) []news.ScoredItem {
	var scored []news.ScoredItem

	for _, it := range candidates {
		key := cache.Key(it.Title, it.Description)
		assessment, hit := a.assessments.Get(key)

		if !hit {
			if !a.budget.Allow() {
				slog.Warn("AI request budget exhausted", "budget", a.budget.String())
				break
			}

			score, reason, err := a.scorer.AssessRelevance(ctx, it.Title, it.Description)
			metrics.Global.IncrementAIRequests()
			if err != nil {
				slog.Error("relevance scoring failed", "title", it.Title, "error", err)
				continue
			}

			assessment = news.Assessment{Score: score, Reason: reason}
			a.assessments.Set(key, assessment)
		}

		if assessment.Score < a.cfg.ScoreThreshold {
			slog.Debug("below threshold", "score", assessment.Score, "title", it.Title)
			metrics.Global.IncrementBelowThreshold()
			continue
		}

		slog.Info("qualified", "score", assessment.Score, "title", it.Title)
		scored = append(scored, news.ScoredItem{Item: it, Assessment: assessment})
	}

	return scored
}

// postItems delivers the selected items. History is updated only after
// a successful webhook post, so a failed post is retried next run.
func (a *App) postItems(ctx context.Context, items []news.ScoredItem, local time.Time) int {
	posted := 0

	for _, it := range items {
		commentary, err := a.scorer.GenerateCommentary(ctx, it.Title, it.Description)
		if err != nil {
			slog.Warn("commentary generation failed, posting without it", "title", it.Title, "error", err)
		} else {
			it.Commentary = commentary
		}

		sentiment := a.collectSentiment(ctx, it.Title)

		msg := discord.FormatMessage(it, sentiment, local)
		if err := a.poster.Post(ctx, msg); err != nil {
			slog.Error("webhook post failed", "title", it.Title, "error", err)
			continue
		}
		posted++
		metrics.Global.IncrementPostsSent()

		if err := a.store.MarkPosted(history.Hash(it.Title, it.Link), it.Title, it.Link, it.Source); err != nil {
			slog.Error("failed to record posted item", "title", it.Title, "error", err)
		}

		if a.journal != nil {
			line := drivelog.FormatLine(local, it.Title, it.Link, it.Commentary)
			if err := a.journal.Append(ctx, line); err != nil {
				slog.Error("log append failed", "title", it.Title, "error", err)
			} else {
				metrics.Global.IncrementLogAppends()
			}
		}
	}

	return posted
}

// collectSentiment is best effort; any failure just drops the section.
func (a *App) collectSentiment(ctx context.Context, title string) *gemini.Sentiment {
	if a.comments == nil {
		return nil
	}

	articleURL, err := a.comments.FindArticle(ctx, title)
	if err != nil || articleURL == "" {
		slog.Debug("no article found for comment analysis", "title", title, "error", err)
		return nil
	}

	comments, err := a.comments.FetchComments(ctx, articleURL)
	if err != nil || len(comments) == 0 {
		slog.Debug("no comments fetched", "url", articleURL, "error", err)
		return nil
	}

	sentiment, err := a.scorer.AnalyzeSentiment(ctx, title, comments)
	if err != nil {
		slog.Warn("sentiment analysis failed", "title", title, "error", err)
		return nil
	}
	return sentiment
}

// withinActiveWindow reports whether hour(t) falls inside [start, end).
// start == end means always active; start > end is an overnight window.
func withinActiveWindow(t time.Time, start, end int) bool {
	h := t.Hour()
	switch {
	case start == end:
		return true
	case start < end:
		return h >= start && h < end
	default:
		return h >= start || h < end
	}
}
