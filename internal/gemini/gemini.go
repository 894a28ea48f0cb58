// Package gemini wraps the Generative AI client for the three calls the
// pipeline makes: relevance scoring, outlook commentary, and comment
// sentiment analysis.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-2.0-flash"

type Client struct {
	client *genai.Client
	model  string
}

// Sentiment is the aggregated reaction extracted from reader comments.
type Sentiment struct {
	Positive    int    `json:"positive"`
	Negative    int    `json:"negative"`
	Neutral     int    `json:"neutral"`
	Temperature int    `json:"temperature"`
	Summary     string `json:"summary"`
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client, model: defaultModel}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// AssessRelevance asks the model how strongly the item relates to
// domestic politics, 0-100, with a one-line reason.
func (c *Client) AssessRelevance(ctx context.Context, title, description string) (int, string, error) {
	prompt := fmt.Sprintf(`以下のニュースが「日本の国内政治」にどれだけ関連しているか0〜100点で評価してください。

判定基準:
- 90-100点: 国会、内閣、政党、選挙、法案、政策など明確な政治ニュース
- 70-89点: 政治家の政治的発言、政治イベント、政治的影響のある経済ニュース
- 50-69点: 政治家が登場するが政治活動以外の話題
- 0-49点: 政治と無関係

ニュース:
タイトル: %s
内容: %s

以下のJSON形式のみで回答してください:
{"score": 数値, "reason": "簡潔な理由"}`, title, clip(description, 300))

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return 0, "", err
	}

	score, reason, err := parseAssessment(raw)
	if err != nil {
		return 0, "", fmt.Errorf("could not parse relevance response: %w", err)
	}
	return score, reason, nil
}

// GenerateCommentary produces the outlook commentary attached to a post:
// expected impact on Japan, on the world, and points to watch.
func (c *Client) GenerateCommentary(ctx context.Context, title, description string) (string, error) {
	prompt := fmt.Sprintf(`以下の政治ニュースを分析し、この出来事が今後の日本や世界にどのような影響を及ぼすか予測してください。

【ニュース】
タイトル: %s
内容: %s

以下の形式で簡潔に回答してください（各項目2-3行程度）：

🇯🇵 日本への影響:
（日本の政治・経済・社会への具体的な影響を予測）

🌏 世界への影響:
（国際関係や世界情勢への影響を予測）

📊 注目ポイント:
（今後注視すべき点や展開の可能性）`, title, clip(description, 500))

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	commentary := strings.TrimSpace(raw)
	if utf8.RuneCountInString(commentary) < 20 {
		return "", fmt.Errorf("commentary too short: %q", commentary)
	}
	return commentary, nil
}

// AnalyzeSentiment summarizes reader comments into stance ratios and a
// temperature score.
func (c *Client) AnalyzeSentiment(ctx context.Context, title string, comments []string) (*Sentiment, error) {
	if len(comments) == 0 {
		return nil, fmt.Errorf("no comments to analyze")
	}

	var b strings.Builder
	for i, comment := range comments {
		if i >= 50 {
			break
		}
		b.WriteString("- ")
		b.WriteString(clip(comment, 200))
		b.WriteString("\n")
	}

	prompt := fmt.Sprintf(`以下のニュース記事に対する読者コメントを分析してください。

【記事タイトル】
%s

【コメント】
%s

以下のJSON形式のみで回答してください:
{"positive": 賛成の割合(0-100), "negative": 反対の割合(0-100), "neutral": 中立の割合(0-100), "temperature": 議論の熱量(0-100), "summary": "世論の傾向を1-2文で要約"}`, title, b.String())

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s, err := parseSentiment(raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse sentiment response: %w", err)
	}
	return s, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

var (
	jsonObjectRe  = regexp.MustCompile(`(?s)\{.*?\}`)
	firstNumberRe = regexp.MustCompile(`\d+`)
)

// parseAssessment extracts score and reason from the model response.
// The model is told to answer in JSON but occasionally wraps it in
// markdown fences or plain prose, so fall back to the first integer.
func parseAssessment(raw string) (int, string, error) {
	if m := jsonObjectRe.FindString(raw); m != "" {
		var parsed struct {
			Score  json.Number `json:"score"`
			Reason string      `json:"reason"`
		}
		if err := json.Unmarshal([]byte(m), &parsed); err == nil {
			if score, err := strconv.Atoi(parsed.Score.String()); err == nil {
				return clampScore(score), strings.TrimSpace(parsed.Reason), nil
			}
		}
	}

	if m := firstNumberRe.FindString(raw); m != "" {
		score, err := strconv.Atoi(m)
		if err == nil {
			return clampScore(score), "", nil
		}
	}

	return 0, "", fmt.Errorf("no score found in %q", clip(raw, 120))
}

func parseSentiment(raw string) (*Sentiment, error) {
	m := jsonObjectRe.FindString(raw)
	if m == "" {
		return nil, fmt.Errorf("no JSON object in %q", clip(raw, 120))
	}

	var s Sentiment
	if err := json.Unmarshal([]byte(m), &s); err != nil {
		return nil, err
	}
	s.Temperature = clampScore(s.Temperature)
	return &s, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// clip truncates s to max runes, collapsing whitespace first.
func clip(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
