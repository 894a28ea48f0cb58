// Package sentiment collects Yahoo!ニュース reader comments for a story
// so the AI can summarize the public reaction. Best effort: Yahoo
// changes its markup regularly and a miss only drops the sentiment
// section from the post.
package sentiment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	searchBaseURL = "https://news.yahoo.co.jp/search"
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	maxComments = 50
)

type Collector struct {
	httpClient *http.Client
}

func NewCollector(timeout time.Duration) *Collector {
	return &Collector{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FindArticle searches Yahoo!ニュース for the headline and returns the
// first matching article URL, or "" when nothing matches.
func (c *Collector) FindArticle(ctx context.Context, title string) (string, error) {
	query := title
	if runes := []rune(query); len(runes) > 50 {
		query = string(runes[:50])
	}

	searchURL := searchBaseURL + "?p=" + url.QueryEscape(query)
	doc, err := c.fetchDocument(ctx, searchURL)
	if err != nil {
		return "", err
	}

	var articleURL string
	selectors := []string{
		"a.newsFeed_item_link",
		".newsFeed_item a",
		"li.newsFeed_item a",
	}
	for _, selector := range selectors {
		if href, ok := doc.Find(selector).First().Attr("href"); ok && href != "" {
			articleURL = href
			break
		}
	}

	return articleURL, nil
}

// FetchComments scrapes reader comments from an article page.
func (c *Collector) FetchComments(ctx context.Context, articleURL string) ([]string, error) {
	doc, err := c.fetchDocument(ctx, articleURL)
	if err != nil {
		return nil, err
	}

	var comments []string
	selectors := []string{
		".comment",
		".sc-comment p",
		"article .comment-body",
	}

	for _, selector := range selectors {
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if len(comments) >= maxComments {
				return false
			}
			text := strings.TrimSpace(s.Text())
			if text != "" && len([]rune(text)) > 5 {
				comments = append(comments, text)
			}
			return true
		})
		if len(comments) > 0 {
			break
		}
	}

	return comments, nil
}

func (c *Collector) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error %d for %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
