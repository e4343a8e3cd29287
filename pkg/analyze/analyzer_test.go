package analyze

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalValidPython(t *testing.T) {
	a := NewAnalyzer()
	code := "def add(a, b):\n    return a + b\n"

	res := a.Local(code, "py")
	local, ok := res.AST.(LocalAnalysis)
	assert.True(t, ok)
	assert.Nil(t, local.Stats)
	assert.NotEmpty(t, local.Nodes)

	// Pre-order: the root comes first, at the start of the source.
	assert.Equal(t, "module", local.Nodes[0].Type)
	assert.Equal(t, uint(1), local.Nodes[0].Line)

	// Source order is non-decreasing by line.
	prev := uint(0)
	for _, n := range local.Nodes {
		assert.GreaterOrEqual(t, n.Line, prev)
		prev = n.Line
	}

	var types []string
	for _, n := range local.Nodes {
		types = append(types, n.Type)
	}
	assert.Contains(t, types, "function_definition")
	assert.Contains(t, types, "return_statement")
}

func TestLocalInvalidSyntaxFallsBack(t *testing.T) {
	a := NewAnalyzer()
	code := "def broken(((\nnot python at all ]]]"

	res := a.Local(code, "py")
	local, ok := res.AST.(LocalAnalysis)
	assert.True(t, ok)
	assert.Nil(t, local.Nodes)
	assert.NotNil(t, local.Stats)
	assert.Equal(t, strings.Count(code, "\n")+1, local.Stats.LineCount)
}

func TestLocalEmptyInputParses(t *testing.T) {
	a := NewAnalyzer()
	res := a.Local("", "py")
	local, ok := res.AST.(LocalAnalysis)
	assert.True(t, ok)

	// Empty input is valid: a bare root node, not the stats fallback.
	assert.Nil(t, local.Stats)
	assert.Len(t, local.Nodes, 1)
	assert.Equal(t, "module", local.Nodes[0].Type)
	assert.Equal(t, uint(1), local.Nodes[0].Line)
	assert.Equal(t, uint(0), local.Nodes[0].Column)
}

func TestLocalColumnsAreZeroBased(t *testing.T) {
	a := NewAnalyzer()
	res := a.Local("x = 1\n", "py")
	local := res.AST.(LocalAnalysis)

	// Every node on line 1 starts at or after column 0; the root at 0.
	assert.Equal(t, uint(0), local.Nodes[0].Column)
	for _, n := range local.Nodes {
		if n.Type == "identifier" {
			assert.Equal(t, uint(0), n.Column)
		}
	}
}

func TestLocalGoGrammar(t *testing.T) {
	a := NewAnalyzer()
	res := a.Local("package main\n\nfunc main() {}\n", "go")
	local := res.AST.(LocalAnalysis)
	assert.NotEmpty(t, local.Nodes)
	assert.Equal(t, "source_file", local.Nodes[0].Type)
}

func TestLocalUnknownLanguageDefaultsToPython(t *testing.T) {
	a := NewAnalyzer()
	res := a.Local("x = 1\n", "brainfuck")
	local := res.AST.(LocalAnalysis)
	assert.NotEmpty(t, local.Nodes)
	assert.Equal(t, "module", local.Nodes[0].Type)
}

func TestStatsOf(t *testing.T) {
	s := statsOf("one two\n\nthree\n")
	assert.Equal(t, 4, s.LineCount) // three newlines + 1
	assert.Equal(t, 3, s.WordCount)
	assert.Equal(t, 2, s.NonEmptyLineCount)
	assert.Equal(t, 15, s.CharCount)
}

func TestEchoTruncation(t *testing.T) {
	long := strings.Repeat("x", 500)
	a := NewAnalyzer()
	res := a.Local(long, "py")
	assert.Len(t, res.Text, EchoLen)

	res = a.Local("short", "py")
	assert.Equal(t, "short", res.Text)
}
