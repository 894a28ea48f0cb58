package metrics

import (
	"sync"
	"time"
)

// Metrics collects per-process counters for the pipeline. Exposed as
// JSON through the optional monitoring listener.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedItemsFetched  int64
	KeywordMatched    int64
	DuplicatesSkipped int64
	BelowThreshold    int64
	AIRequests        int64
	PostsSent         int64
	LogAppends        int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddFeedItems(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedItemsFetched += int64(n)
}

func (m *Metrics) IncrementKeywordMatched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.KeywordMatched++
}

func (m *Metrics) IncrementDuplicatesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesSkipped++
}

func (m *Metrics) IncrementBelowThreshold() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BelowThreshold++
}

func (m *Metrics) IncrementAIRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AIRequests++
}

func (m *Metrics) IncrementPostsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostsSent++
}

func (m *Metrics) IncrementLogAppends() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogAppends++
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feed_items_fetched":   m.FeedItemsFetched,
		"keyword_matched":      m.KeywordMatched,
		"duplicates_skipped":   m.DuplicatesSkipped,
		"below_threshold":      m.BelowThreshold,
		"ai_requests":          m.AIRequests,
		"posts_sent":           m.PostsSent,
		"log_appends":          m.LogAppends,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
