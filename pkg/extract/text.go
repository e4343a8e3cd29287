package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/duynguyendang/cca/pkg/common/errors"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// ErrUnsupportedEncoding is returned when no encoding in the fallback chain
// accepts the input bytes. Mapped to HTTP 400.
var ErrUnsupportedEncoding = fmt.Errorf("%w: unsupported file encoding", errors.ErrInvalidInput)

// DecodeText converts raw bytes to a string through a fixed fallback chain:
// UTF-8, then GBK, then permissive Latin-1. Markdown stops after GBK — a file
// meant to render as Markdown must be in a real text encoding, so the
// anything-goes Latin-1 step is skipped for it.
func DecodeText(data []byte, kind Kind) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	if s, ok := decodeGBK(data); ok {
		return s, nil
	}

	if kind == KindMarkdown {
		return "", ErrUnsupportedEncoding
	}

	// Latin-1 accepts every byte value.
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", ErrUnsupportedEncoding
	}
	return string(s), nil
}

// decodeGBK attempts a strict GBK decode. The x/text decoder substitutes
// replacement runes for bad sequences instead of failing, so a decode that
// produced any replacement rune is treated as a rejection.
func decodeGBK(data []byte) (string, bool) {
	out, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	s := string(out)
	if strings.ContainsRune(s, utf8.RuneError) {
		return "", false
	}
	return s, true
}
