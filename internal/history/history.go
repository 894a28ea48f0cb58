// Package history tracks already-posted items so a story is announced
// at most once per retention window.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Entry is one posted item in the durable history.
type Entry struct {
	Hash     string    `json:"hash"`
	Title    string    `json:"title"`
	Link     string    `json:"link"`
	Source   string    `json:"source"`
	PostedAt time.Time `json:"posted_at"`
}

// Store is the deduplication backend. Contains only consults entries
// inside the retention window; older entries never block a repost.
type Store interface {
	Contains(hash string) bool
	MarkPosted(hash, title, link, source string) error
	// Flush persists pending state. The file backend writes its JSON
	// snapshot here; the postgres backend writes on MarkPosted and
	// treats Flush as a cleanup pass.
	Flush() error
	Close() error
}

// Hash derives a stable identifier from the normalized title plus link.
// Titles get re-ordered punctuation between feed mirrors, so brackets
// common in Japanese headlines are stripped before hashing.
func Hash(title, link string) string {
	normalized := strings.ToLower(strings.TrimSpace(title))
	normalized = bracketReplacer.Replace(normalized)
	normalized = strings.Join(strings.Fields(normalized), " ")

	h := sha256.New()
	h.Write([]byte(normalized + "|" + strings.TrimSpace(link)))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

var bracketReplacer = strings.NewReplacer(
	"【", "", "】", "",
	"『", "", "』", "",
	"「", "", "」", "",
	"[", "", "]", "",
	"(", "", ")", "",
	"（", "", "）", "",
)
