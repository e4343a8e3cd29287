// Package chat owns the ordered conversation history and the message
// sequence replayed to the language model on every turn.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/duynguyendang/cca/pkg/extract"
	"github.com/duynguyendang/cca/pkg/llm"
)

// DefaultMaxHistory bounds the stored history (messages, not pairs). Oldest
// turns are evicted first. The full artifact context is replayed on every
// turn regardless, so the window only bounds turn history growth.
const DefaultMaxHistory = 20

// ErrNotSeeded is returned by Chat before any artifact has been loaded.
var ErrNotSeeded = errors.New("no content loaded: upload a file first")

// System role descriptions used per artifact kind.
const (
	systemCode = "You are a professional code assistant analyzing a %s file."
	systemDoc  = "You are a professional document analysis assistant."
)

// Session is the conversation context manager. Two states: unseeded (no
// content, empty history) and seeded. Exactly one logical actor mutates it.
type Session struct {
	provider   llm.Provider
	maxHistory int

	content *extract.ContentContext
	history []llm.Message

	seedCode  *Prompt
	seedPlain *Prompt
}

// NewSession creates an unseeded session. maxHistory <= 0 selects the
// default window.
func NewSession(provider llm.Provider, maxHistory int) (*Session, error) {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	seedCode, err := LoadPromptOr("prompts/seed_code.prompt", "seed_code.prompt")
	if err != nil {
		return nil, err
	}
	seedPlain, err := LoadPromptOr("prompts/seed_plain.prompt", "seed_plain.prompt")
	if err != nil {
		return nil, err
	}
	return &Session{
		provider:   provider,
		maxHistory: maxHistory,
		seedCode:   seedCode,
		seedPlain:  seedPlain,
	}, nil
}

// Seeded reports whether an artifact is loaded.
func (s *Session) Seeded() bool { return s.content != nil }

// Content returns the active artifact context, or nil.
func (s *Session) Content() *extract.ContentContext { return s.content }

// History returns a copy of the stored turn history.
func (s *Session) History() []llm.Message {
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Seed loads a freshly extracted artifact: it sends the seed prompt as a
// single-shot call and records only the assistant's reply. On failure the
// previous content and history stay intact. Returns the assistant reply.
func (s *Session) Seed(ctx context.Context, cc *extract.ContentContext) (string, error) {
	prompt, err := s.seedPromptFor(cc)
	if err != nil {
		return "", err
	}

	reply, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	s.content = cc
	s.history = []llm.Message{{Role: llm.RoleAssistant, Content: reply}}
	return reply, nil
}

// Chat runs one user turn: the outgoing sequence is the kind-specific system
// message, a user message carrying the full artifact text, every stored turn
// in order, and finally the new input. On success the user input and the
// reply are appended, in that order. On failure nothing changes.
func (s *Session) Chat(ctx context.Context, input string) (string, error) {
	if !s.Seeded() {
		return "", ErrNotSeeded
	}

	messages := s.buildMessages(input)
	reply, err := s.provider.Chat(ctx, messages)
	if err != nil {
		return "", err
	}

	s.history = append(s.history,
		llm.Message{Role: llm.RoleUser, Content: input},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)
	s.trim()
	return reply, nil
}

// Clear empties the history and discards the content context.
func (s *Session) Clear() {
	s.content = nil
	s.history = nil
}

func (s *Session) buildMessages(input string) []llm.Message {
	var messages []llm.Message

	if isCodeLike(s.content.Kind) {
		messages = append(messages,
			llm.Message{Role: llm.RoleSystem, Content: fmt.Sprintf(systemCode, s.content.Language)},
			llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("File content:\n```%s\n%s\n```", s.content.Language, s.content.Text)},
		)
	} else {
		messages = append(messages,
			llm.Message{Role: llm.RoleSystem, Content: systemDoc},
			llm.Message{Role: llm.RoleUser, Content: "Document content:\n" + s.content.Text},
		)
	}

	messages = append(messages, s.history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: input})
	return messages
}

func (s *Session) seedPromptFor(cc *extract.ContentContext) (string, error) {
	if isCodeLike(cc.Kind) {
		return s.seedCode.Execute(map[string]any{
			"language": cc.Language,
			"path":     cc.SourcePath,
			"content":  cc.Text,
		})
	}
	return s.seedPlain.Execute(map[string]any{
		"path":    cc.SourcePath,
		"content": cc.Text,
	})
}

func (s *Session) trim() {
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
}

func isCodeLike(k extract.Kind) bool {
	return k == extract.KindCode || k == extract.KindMarkdown || k == extract.KindPlainText
}
