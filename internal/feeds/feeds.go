// Package feeds loads the source list from YAML and fetches entries
// with gofeed.
package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/zepome/news-discord-bot/internal/news"
)

// Source is one configured news outlet.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Config is the YAML feeds file: sources plus the keyword rules, which
// are deployment configuration rather than code.
type Config struct {
	Sources         []Source `yaml:"sources"`
	IncludeKeywords []string `yaml:"include_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

// LoadConfig reads the feeds YAML file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode feeds config: %w", err)
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("feeds config %s has no sources", path)
	}
	return &cfg, nil
}

// Fetcher downloads and parses configured feeds.
type Fetcher struct {
	parser     *gofeed.Parser
	maxPerFeed int
}

func NewFetcher(maxPerFeed int) *Fetcher {
	p := gofeed.NewParser()
	p.UserAgent = "Mozilla/5.0 (compatible; news-discord-bot/1.0)"
	return &Fetcher{parser: p, maxPerFeed: maxPerFeed}
}

// FetchAll pulls every source and returns the combined item list.
// A source that fails to parse is logged and skipped, never fatal.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) []news.Item {
	var items []news.Item
	successCount := 0

	for _, src := range sources {
		feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
		if err != nil {
			slog.Warn("feed fetch failed", "source", src.Name, "url", src.URL, "error", err)
			continue
		}

		count := 0
		for _, entry := range feed.Items {
			if f.maxPerFeed > 0 && count >= f.maxPerFeed {
				break
			}
			it := toItem(entry, src.Name)
			if it.Title == "" || it.Link == "" {
				continue
			}
			items = append(items, it)
			count++
		}

		successCount++
		slog.Info("feed fetched", "source", src.Name, "items", count)
	}

	slog.Info("feeds processed", "ok", successCount, "total", len(sources), "items", len(items))
	return items
}

func toItem(entry *gofeed.Item, source string) news.Item {
	desc := entry.Description
	if desc == "" {
		desc = entry.Content
	}

	published := time.Now()
	if entry.PublishedParsed != nil {
		published = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		published = *entry.UpdatedParsed
	}

	return news.Item{
		Title:       entry.Title,
		Link:        entry.Link,
		Description: desc,
		Source:      source,
		Published:   published,
	}
}
