package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DeepSeek chat-completions defaults, matching the service contract.
const (
	DefaultDeepSeekBaseURL = "https://api.deepseek.com"
	DefaultDeepSeekModel   = "deepseek-coder"

	deepseekTemperature = 0.7
	deepseekMaxTokens   = 2000
)

// DeepSeek is a client for the DeepSeek chat-completions API.
type DeepSeek struct {
	APIKey  string
	BaseURL string // overridable for tests
	Model   string
	HTTP    *http.Client
}

// NewDeepSeek creates a client with the default endpoint and model.
func NewDeepSeek(apiKey string) *DeepSeek {
	return &DeepSeek{
		APIKey:  apiKey,
		BaseURL: DefaultDeepSeekBaseURL,
		Model:   DefaultDeepSeekModel,
		HTTP:    &http.Client{Timeout: 120 * time.Second},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete submits prompt as a single user message.
func (c *DeepSeek) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}})
}

// Chat submits the full message sequence and returns the first choice's
// content. A non-2xx status, an unparsable body, or an empty choices list is
// an error; nothing is retried.
func (c *DeepSeek) Chat(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.Model,
		Messages:    messages,
		Temperature: deepseekTemperature,
		MaxTokens:   deepseekMaxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepseek request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("deepseek API error (status %d): %s", resp.StatusCode, bytes.TrimSpace(errText))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("deepseek response malformed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("deepseek returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
