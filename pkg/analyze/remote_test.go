package analyze

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duynguyendang/cca/pkg/llm"
)

type fakeProvider struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func (f *fakeProvider) Chat(_ context.Context, messages []llm.Message) (string, error) {
	return f.reply, f.err
}

func TestRemoteSuccess(t *testing.T) {
	p := &fakeProvider{reply: "final code"}
	e := NewEngine(p)

	res := e.Remote(context.Background(), "print('hi')", "")
	remote, ok := res.AST.(RemoteAnalysis)
	assert.True(t, ok)
	assert.Equal(t, "final code", remote.Content)
	assert.Empty(t, remote.Error)

	// Default instruction precedes the code.
	assert.Equal(t, DefaultRemotePrompt+"\n\nprint('hi')", p.prompt)
}

func TestRemoteCallerPrompt(t *testing.T) {
	p := &fakeProvider{reply: "ok"}
	e := NewEngine(p)

	e.Remote(context.Background(), "code", "Explain this")
	assert.Equal(t, "Explain this\n\ncode", p.prompt)
}

func TestRemoteUpstreamFailureEmbedded(t *testing.T) {
	p := &fakeProvider{err: fmt.Errorf("connection refused")}
	e := NewEngine(p)

	res := e.Remote(context.Background(), "code", "")
	remote := res.AST.(RemoteAnalysis)
	assert.Empty(t, remote.Content)
	assert.Contains(t, remote.Error, "connection refused")
}

func TestRemoteNoProvider(t *testing.T) {
	e := NewEngine(nil)
	res := e.Remote(context.Background(), "code", "")
	remote := res.AST.(RemoteAnalysis)
	assert.NotEmpty(t, remote.Error)
}

func TestAnalyzeModeSelection(t *testing.T) {
	p := &fakeProvider{reply: "remote result"}
	e := NewEngine(p)

	local := e.Analyze(context.Background(), "x = 1\n", false, "", "py")
	_, isLocal := local.AST.(LocalAnalysis)
	assert.True(t, isLocal)

	remote := e.Analyze(context.Background(), "x = 1\n", true, "", "py")
	_, isRemote := remote.AST.(RemoteAnalysis)
	assert.True(t, isRemote)
}
