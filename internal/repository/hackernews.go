package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ainews/internal/model"
)

const (
	defaultHNBaseURL = "https://hacker-news.firebaseio.com/v0"

	// How deep into the top-story list to look.
	hnScanLimit = 50

	// Stop once this many qualifying stories are collected.
	hnStoryLimit = 5

	hnMaxAge = 24 * time.Hour
)

// aiKeywords select AI/ML-related stories by case-insensitive substring
// match against the title.
var aiKeywords = []string{
	"AI", "artificial intelligence", "machine learning", "ML",
	"neural", "GPT", "LLM", "deep learning", "OpenAI", "Anthropic",
	"Claude", "ChatGPT", "transformer", "diffusion", "DeepSeek",
	"Gemini", "Llama", "Mistral",
}

// HackerNewsSource scans the Hacker News top-story firehose for recent
// AI-related stories.
type HackerNewsSource struct {
	// BaseURL is overridable for tests.
	BaseURL    string
	httpClient *http.Client
}

func NewHackerNewsSource() *HackerNewsSource {
	return &HackerNewsSource{
		BaseURL: defaultHNBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *HackerNewsSource) Name() string {
	return "Hacker News"
}

type hnStory struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
	Time  int64  `json:"time"`
}

// Fetch inspects the first 50 top stories in listed order and keeps
// AI-related stories from the last 24 hours, stopping at 5.
func (s *HackerNewsSource) Fetch(ctx context.Context) ([]model.NewsItem, error) {
	var storyIDs []int64
	if err := s.getJSON(ctx, "/topstories.json", &storyIDs); err != nil {
		return nil, fmt.Errorf("fetching top stories: %w", err)
	}

	if len(storyIDs) > hnScanLimit {
		storyIDs = storyIDs[:hnScanLimit]
	}

	cutoff := time.Now().Add(-hnMaxAge)
	var items []model.NewsItem

	for _, id := range storyIDs {
		var story hnStory
		if err := s.getJSON(ctx, fmt.Sprintf("/item/%d.json", id), &story); err != nil {
			return items, fmt.Errorf("fetching story %d: %w", id, err)
		}

		if story.Type != "story" {
			continue
		}

		if !isAIRelated(story.Title) {
			continue
		}

		published := time.Unix(story.Time, 0)
		if published.Before(cutoff) {
			continue
		}

		url := story.URL
		if url == "" {
			// Ask HN and text posts have no external link.
			url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
		}

		items = append(items, model.NewsItem{
			Title:       story.Title,
			URL:         url,
			Content:     story.Text,
			Source:      s.Name(),
			PublishedAt: published,
		})

		if len(items) >= hnStoryLimit {
			break
		}
	}

	return items, nil
}

func (s *HackerNewsSource) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func isAIRelated(title string) bool {
	titleLower := strings.ToLower(title)
	for _, keyword := range aiKeywords {
		if strings.Contains(titleLower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
