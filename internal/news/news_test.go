package news_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zepome/news-discord-bot/internal/news"
)

func testFilter() *news.KeywordFilter {
	return news.NewKeywordFilter(
		[]string{"首相", "国会", "増税", "日米"},
		[]string{"サッカー", "野球", "映画"},
	)
}

func TestKeywordFilterMatches(t *testing.T) {
	filter := testFilter()

	tests := []struct {
		name string
		item news.Item
		want bool
	}{
		{
			name: "political keyword in title",
			item: news.Item{Title: "首相、臨時国会で所信表明へ"},
			want: true,
		},
		{
			name: "political keyword in description only",
			item: news.Item{Title: "速報", Description: "増税をめぐる与野党協議が始まった"},
			want: true,
		},
		{
			name: "no matching keyword",
			item: news.Item{Title: "新型スマートフォン発売", Description: "最新機種の発表会"},
			want: false,
		},
		{
			name: "exclusion wins over inclusion",
			item: news.Item{Title: "首相が始球式に登場", Description: "プロ野球の開幕戦で"},
			want: false,
		},
		{
			name: "empty item",
			item: news.Item{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, filter.Matches(tt.item))
		})
	}
}

func TestKeywordFilterShortASCIIToken(t *testing.T) {
	// "ai" must match the word but not the inside of "said".
	filter := news.NewKeywordFilter([]string{"ai"}, nil)

	require.True(t, filter.Matches(news.Item{Title: "New AI policy announced"}))
	require.False(t, filter.Matches(news.Item{Title: "The minister said nothing"}))
}

func TestDedupeLinks(t *testing.T) {
	items := []news.Item{
		{Title: "a", Link: "https://example.com/1"},
		{Title: "b", Link: "https://example.com/2"},
		{Title: "a again", Link: "https://example.com/1"},
		{Title: "no link"},
	}

	out := news.DedupeLinks(items)
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0].Title)
	require.Equal(t, "b", out[1].Title)
}

func TestSortByScore(t *testing.T) {
	older := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	newer := older.Add(2 * time.Hour)

	items := []news.ScoredItem{
		{Item: news.Item{Title: "low"}, Assessment: news.Assessment{Score: 60}},
		{Item: news.Item{Title: "high-old", Published: older}, Assessment: news.Assessment{Score: 90}},
		{Item: news.Item{Title: "high-new", Published: newer}, Assessment: news.Assessment{Score: 90}},
	}

	news.SortByScore(items)

	require.Equal(t, "high-new", items[0].Title)
	require.Equal(t, "high-old", items[1].Title)
	require.Equal(t, "low", items[2].Title)
}
