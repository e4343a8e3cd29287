package analyze

import (
	"context"
	"time"

	"github.com/duynguyendang/cca/pkg/llm"
)

// DefaultRemotePrompt is the instruction used when the caller supplies none.
const DefaultRemotePrompt = "Output only the final code, no explanation."

// RemoteTimeout is the deadline on a delegated analysis call. This is the one
// ingestion-adjacent call that carries an explicit deadline.
const RemoteTimeout = 30 * time.Second

// RemoteAnalysis is the delegated-analysis payload: exactly one of Content or
// Error is set.
type RemoteAnalysis struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Engine selects between local structural analysis and remote delegation.
type Engine struct {
	Analyzer *Analyzer
	Provider llm.Provider
}

// NewEngine creates an Engine. Provider may be nil if remote mode is never
// requested.
func NewEngine(provider llm.Provider) *Engine {
	return &Engine{Analyzer: NewAnalyzer(), Provider: provider}
}

// Analyze runs one of the two mutually exclusive modes. Remote upstream
// failures are embedded in the result rather than returned, so the caller's
// session can continue; they are never retried.
func (e *Engine) Analyze(ctx context.Context, code string, remote bool, prompt, language string) *Result {
	if !remote {
		return e.Analyzer.Local(code, language)
	}
	return e.Remote(ctx, code, prompt)
}

// Remote submits one prompt (caller instruction or the default, followed by
// the code) as a single-shot completion.
func (e *Engine) Remote(ctx context.Context, code, prompt string) *Result {
	res := &Result{Text: echo(code)}
	if e.Provider == nil {
		res.AST = RemoteAnalysis{Error: "no language-model provider configured"}
		return res
	}

	if prompt == "" {
		prompt = DefaultRemotePrompt
	}

	ctx, cancel := context.WithTimeout(ctx, RemoteTimeout)
	defer cancel()

	content, err := e.Provider.Complete(ctx, prompt+"\n\n"+code)
	if err != nil {
		res.AST = RemoteAnalysis{Error: err.Error()}
		return res
	}
	res.AST = RemoteAnalysis{Content: content}
	return res
}
