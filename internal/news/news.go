// Package news holds the item model and the keyword prefilter that
// decides which feed entries are worth an AI relevance call.
package news

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Item is a single feed entry, alive for one fetch cycle only.
type Item struct {
	Title       string
	Link        string
	Description string
	Source      string
	Published   time.Time
}

// Assessment is the AI verdict attached to an item before posting.
type Assessment struct {
	Score      int    // political relevance, 0-100
	Reason     string // short justification from the model
	Commentary string // outlook commentary shown in the post
}

// ScoredItem pairs an item with its assessment for ranking.
type ScoredItem struct {
	Item
	Assessment
}

// KeywordFilter applies inclusion/exclusion keyword rules over
// title + description.
type KeywordFilter struct {
	include []string
	exclude []string
}

func NewKeywordFilter(include, exclude []string) *KeywordFilter {
	return &KeywordFilter{include: include, exclude: exclude}
}

// Matches reports whether the item passes the keyword rules: at least
// one inclusion keyword present and no exclusion keyword.
func (f *KeywordFilter) Matches(it Item) bool {
	text := it.Title + " " + it.Description
	if !containsAny(text, f.include) {
		return false
	}
	if containsAny(text, f.exclude) {
		return false
	}
	return true
}

// containsAny distinguishes phrases and short tokens so that a two-letter
// keyword does not match inside an unrelated word.
func containsAny(text string, keywords []string) bool {
	text = strings.ToLower(text)

	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}

		// Phrases match as substrings
		if strings.Contains(k, " ") {
			if strings.Contains(text, k) {
				return true
			}
			continue
		}

		// Short ASCII tokens need word boundaries ("ai" must not match "said").
		// CJK keywords have no word boundaries, substring match is correct for them.
		if len(k) <= 3 && isASCII(k) {
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`)
			if re.MatchString(text) {
				return true
			}
			continue
		}

		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}

// DedupeLinks removes in-run duplicates, keeping the first occurrence
// of every link. Feeds overlap a lot (Yahoo mirrors wire services).
func DedupeLinks(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		link := strings.TrimSpace(it.Link)
		if link == "" {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		out = append(out, it)
	}
	return out
}

// SortByScore orders items by score descending, newest first on ties.
func SortByScore(items []ScoredItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Published.After(items[j].Published)
	})
}
