package repl

import (
	"strings"

	"github.com/agext/levenshtein"
)

var commandNames = []string{"upload", "clear", "quit", "exit"}

// suggestCommand returns the closest command name when input looks like a
// mistyped command (single word, small edit distance), or "".
func suggestCommand(input string) string {
	word := strings.ToLower(strings.Fields(input)[0])
	if strings.Contains(input, " ") && !strings.HasPrefix(word, "up") {
		return ""
	}

	best := ""
	bestDist := 3 // anything further is probably chat, not a typo
	for _, cmd := range commandNames {
		if word == cmd {
			return ""
		}
		if d := levenshtein.Distance(word, cmd, nil); d < bestDist {
			best = cmd
			bestDist = d
		}
	}
	return best
}
