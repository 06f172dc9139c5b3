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

const defaultMinimaxAPIURL = "https://api.minimax.chat/v1/text_to_speech"

// SpeechSynthesizer turns text into raw audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// MinimaxClient handles Minimax text-to-speech API operations.
type MinimaxClient struct {
	apiKey     string
	groupID    string
	baseURL    string
	httpClient *http.Client
}

var _ SpeechSynthesizer = (*MinimaxClient)(nil)

// NewMinimaxClient creates a new Minimax TTS client.
func NewMinimaxClient(apiKey, groupID string) *MinimaxClient {
	return &MinimaxClient{
		apiKey:  apiKey,
		groupID: groupID,
		baseURL: defaultMinimaxAPIURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewMinimaxClientWithBaseURL is used by tests to point at a fake server.
func NewMinimaxClientWithBaseURL(apiKey, groupID, baseURL string) *MinimaxClient {
	c := NewMinimaxClient(apiKey, groupID)
	c.baseURL = baseURL
	return c
}

type ttsRequest struct {
	Text    string  `json:"text"`
	Model   string  `json:"model"`
	VoiceID string  `json:"voice_id"`
	Speed   float64 `json:"speed"`
	Vol     float64 `json:"vol"`
	Pitch   int     `json:"pitch"`
	GroupID string  `json:"group_id"`
}

// Synthesize requests spoken audio for the given text and returns the raw
// MP3 bytes. Provider errors arrive as JSON bodies and are surfaced as
// errors rather than stored as audio.
func (c *MinimaxClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ttsReq := ttsRequest{
		Text:    text,
		Model:   "speech-01",
		VoiceID: "female-tianmei",
		Speed:   1.0,
		Vol:     1.0,
		Pitch:   0,
		GroupID: c.groupID,
	}

	body, err := json.Marshal(ttsReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	// Minimax reports failures as JSON with a 200 status.
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil, fmt.Errorf("TTS request rejected: %s", string(respBody))
	}

	if len(respBody) == 0 {
		return nil, fmt.Errorf("empty audio response")
	}

	return respBody, nil
}
