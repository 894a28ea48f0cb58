// Package cache keeps AI assessments in memory for the duration of a
// run, so the same story arriving from two feeds costs one Gemini call.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/zepome/news-discord-bot/internal/news"
)

type entry struct {
	assessment news.Assessment
	expiresAt  time.Time
}

type AssessmentCache struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
}

func New(ttl time.Duration) *AssessmentCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AssessmentCache{
		items: make(map[string]entry),
		ttl:   ttl,
	}
}

// Key derives a stable cache key from the item text.
func Key(title, description string) string {
	h := sha256.New()
	h.Write([]byte(title + "|" + description))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *AssessmentCache) Get(key string) (news.Assessment, bool) {
	c.mu.RLock()
	e, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return news.Assessment{}, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return news.Assessment{}, false
	}
	return e.assessment, true
}

func (c *AssessmentCache) Set(key string, a news.Assessment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry{
		assessment: a,
		expiresAt:  time.Now().Add(c.ttl),
	}
}

func (c *AssessmentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
