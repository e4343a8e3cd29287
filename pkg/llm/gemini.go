package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when GEMINI_MODEL is unset.
const DefaultGeminiModel = "gemini-1.5-flash"

// Gemini is the alternative completion backend, using the Google SDK.
type Gemini struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// NewGemini creates a client with default model and timeout.
func NewGemini(apiKey string) *Gemini {
	return &Gemini{
		APIKey:      apiKey,
		Model:       DefaultGeminiModel,
		Temperature: 0.7,
		Timeout:     120 * time.Second,
	}
}

// Complete submits a single-shot prompt.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	return g.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}})
}

// Chat maps the message sequence onto a Gemini chat session. System messages
// become the system instruction; assistant turns map to the "model" role.
func (g *Gemini) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("empty message sequence")
	}

	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.Model)
	model.SetTemperature(g.Temperature)

	var system []string
	var history []*genai.Content
	for _, m := range messages[:len(messages)-1] {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			history = append(history, &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text(m.Content)},
			})
		default:
			history = append(history, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(m.Content)},
			})
		}
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(strings.Join(system, "\n"))},
		}
	}

	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(messages[len(messages)-1].Content))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from Gemini")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return strings.TrimSpace(string(txt)), nil
		}
	}
	return "", fmt.Errorf("unexpected response format")
}
