// Package analyze produces either a local structural summary of a piece of
// code or a remote-delegated model analysis.
package analyze

import (
	"strings"
	"sync"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// EchoLen bounds the input echo carried alongside every analysis result.
const EchoLen = 200

// Result is the analysis payload: the (truncated) input echo plus either a
// LocalAnalysis or a RemoteAnalysis.
type Result struct {
	Text string `json:"text"`
	AST  any    `json:"ast"`
}

// Node is one AST node in pre-order.
type Node struct {
	Type   string `json:"type"`
	Line   uint   `json:"line"` // 1-based
	Column uint   `json:"col"`  // 0-based
}

// Stats is the statistics fallback used when the input does not parse.
type Stats struct {
	LineCount         int `json:"line_count"`
	CharCount         int `json:"char_count"`
	WordCount         int `json:"word_count"`
	NonEmptyLineCount int `json:"non_empty_line_count"`
}

// LocalAnalysis carries either the flattened node list or the fallback stats.
type LocalAnalysis struct {
	Nodes []Node `json:"nodes,omitempty"`
	Stats *Stats `json:"stats,omitempty"`
}

// grammars is the static registry of supported language tags. Python is the
// default when the tag is unknown or absent.
var grammars = map[string]*sitter.Language{
	"py": sitter.NewLanguage(tree_sitter_python.Language()),
	"go": sitter.NewLanguage(tree_sitter_go.Language()),
	"js": sitter.NewLanguage(tree_sitter_javascript.Language()),
	"ts": sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
}

func grammarFor(language string) *sitter.Language {
	if g, ok := grammars[strings.ToLower(language)]; ok {
		return g
	}
	return grammars["py"]
}

// Analyzer runs local structural analysis. A tree-sitter parser is not safe
// for concurrent use, so parses are serialized.
type Analyzer struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{parser: sitter.NewParser()}
}

// Local parses code with the grammar for the given language tag and returns
// the flattened pre-order node list. Input that does not parse yields the
// statistics fallback; this is policy, not an error, so Local always
// succeeds.
func (a *Analyzer) Local(code, language string) *Result {
	res := &Result{Text: echo(code)}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.parser.SetLanguage(grammarFor(language))
	tree := a.parser.Parse([]byte(code), nil)
	if tree == nil {
		res.AST = LocalAnalysis{Stats: statsOf(code)}
		return res
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		res.AST = LocalAnalysis{Stats: statsOf(code)}
		return res
	}

	var nodes []Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		pos := n.StartPosition()
		nodes = append(nodes, Node{
			Type:   n.Kind(),
			Line:   uint(pos.Row) + 1,
			Column: uint(pos.Column),
		})
		for i := uint(0); i < uint(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	res.AST = LocalAnalysis{Nodes: nodes}
	return res
}

func statsOf(code string) *Stats {
	lines := strings.Split(code, "\n")
	nonEmpty := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty++
		}
	}
	return &Stats{
		LineCount:         strings.Count(code, "\n") + 1,
		CharCount:         utf8.RuneCountInString(code),
		WordCount:         len(strings.Fields(code)),
		NonEmptyLineCount: nonEmpty,
	}
}

func echo(code string) string {
	if utf8.RuneCountInString(code) > EchoLen {
		return string([]rune(code)[:EchoLen])
	}
	return code
}
