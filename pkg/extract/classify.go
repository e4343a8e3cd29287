package extract

import (
	"path/filepath"
	"strings"

	"github.com/duynguyendang/cca/pkg/common/errors"
)

// kindByExt is the fixed classification registry. Matching is by extension
// suffix, case-insensitive. Anything outside this table is rejected.
var kindByExt = map[string]Kind{
	"py":   KindCode,
	"js":   KindCode,
	"java": KindCode,
	"cpp":  KindCode,
	"c":    KindCode,
	"go":   KindCode,
	"md":   KindMarkdown,
	"png":  KindImage,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"pdf":  KindDocument,
	"docx": KindDocument,
	"txt":  KindPlainText,
	"sh":   KindPlainText,
	"yaml": KindPlainText,
	"yml":  KindPlainText,
}

// Classify maps a filename to its extractor kind.
func Classify(filename string) (Kind, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if k, ok := kindByExt[ext]; ok {
		return k, nil
	}
	return "", errors.ErrUnsupportedFormat
}

// Language returns the language tag used for code contexts (the bare
// extension), or "" for non-code artifacts.
func Language(filename string) string {
	k, err := Classify(filename)
	if err != nil || (k != KindCode && k != KindPlainText && k != KindMarkdown) {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
