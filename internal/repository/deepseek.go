package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// FailedSummary is the sentinel stored when summarization fails for an
// item. It is distinguishable from real summaries and must never reach
// the speech stage.
const FailedSummary = "- 摘要生成失败"

// Upper bound on how much article content is embedded in the prompt.
const summaryContentLimit = 2000

// Summarizer produces a condensed bullet-style summary for one article.
type Summarizer interface {
	Summarize(ctx context.Context, title, url, content string) (string, error)
}

// DeepSeekClient handles DeepSeek chat-completion API operations.
type DeepSeekClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var _ Summarizer = (*DeepSeekClient)(nil)

// NewDeepSeekClient creates a new DeepSeek API client.
func NewDeepSeekClient(baseURL, apiKey string) *DeepSeekClient {
	return &DeepSeekClient{
		apiKey:  apiKey,
		model:   "deepseek-chat",
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	MaxTokens        int           `json:"max_tokens"`
	TopP             float64       `json:"top_p"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Summarize requests a short bullet summary for the article. Errors are
// returned to the caller; the pipeline substitutes the sentinel so one
// item's failure never blocks its siblings.
func (c *DeepSeekClient) Summarize(ctx context.Context, title, url, content string) (string, error) {
	chatReq := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "你是一个专业的AI新闻摘要助手，擅长提炼关键信息。"},
			{Role: "user", Content: buildSummaryPrompt(title, url, content)},
		},
		Temperature:      0.3,
		MaxTokens:        300,
		TopP:             0.9,
		FrequencyPenalty: 0.0,
		PresencePenalty:  0.0,
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	summary := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("empty completion in response")
	}

	return summary, nil
}

// buildSummaryPrompt embeds title, URL and a bounded content prefix.
func buildSummaryPrompt(title, url, content string) string {
	var prompt strings.Builder

	prompt.WriteString("请为以下AI领域的新闻/论文生成简洁摘要。\n\n")
	prompt.WriteString(fmt.Sprintf("标题：%s\n", title))
	prompt.WriteString(fmt.Sprintf("链接：%s\n", url))
	prompt.WriteString(fmt.Sprintf("内容：%s...\n\n", truncateRunes(content, summaryContentLimit)))
	prompt.WriteString("要求：\n")
	prompt.WriteString("1. 生成3-5个要点，每个要点一行\n")
	prompt.WriteString("2. 使用bullet形式（-开头）\n")
	prompt.WriteString("3. 突出核心创新或重要信息\n")
	prompt.WriteString("4. 每条不超过20个字\n")
	prompt.WriteString("5. 适合快速阅读理解\n")
	prompt.WriteString("6. 用中文回复\n\n")
	prompt.WriteString("只返回要点内容，不需要其他说明。")

	return prompt.String()
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
