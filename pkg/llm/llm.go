// Package llm provides the remote language-model clients. DeepSeek is the
// default backend; Gemini is selectable via LLM_PROVIDER=gemini.
package llm

import (
	"context"
	"fmt"
	"os"
)

// Roles used in conversation messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn. Immutable once appended to a history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is a remote completion backend.
type Provider interface {
	// Complete submits a single-shot prompt.
	Complete(ctx context.Context, prompt string) (string, error)
	// Chat submits a full ordered message sequence.
	Chat(ctx context.Context, messages []Message) (string, error)
}

// FromEnv builds the provider selected by LLM_PROVIDER (default "deepseek").
func FromEnv() (Provider, error) {
	switch os.Getenv("LLM_PROVIDER") {
	case "", "deepseek":
		apiKey := os.Getenv("DEEPSEEK_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY not set")
		}
		c := NewDeepSeek(apiKey)
		if model := os.Getenv("DEEPSEEK_MODEL"); model != "" {
			c.Model = model
		}
		return c, nil
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		g := NewGemini(apiKey)
		if model := os.Getenv("GEMINI_MODEL"); model != "" {
			g.Model = model
		}
		return g, nil
	}
	return nil, fmt.Errorf("unknown LLM_PROVIDER %q", os.Getenv("LLM_PROVIDER"))
}
