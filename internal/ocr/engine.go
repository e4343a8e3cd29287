// Package ocr runs the Tesseract executable as a black-box recognizer:
// image bytes in, best-effort text out.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// DefaultLangs is the bilingual recognition set used when none is configured.
const DefaultLangs = "chi_sim+eng"

// EnvBinary overrides the binary location when no explicit path is configured.
const EnvBinary = "TESSERACT_CMD"

// Engine invokes Tesseract. The binary is resolved lazily on first use:
// explicit Path, then the TESSERACT_CMD environment variable, then a PATH
// lookup. Resolution happens once per Engine.
type Engine struct {
	Path  string // explicit binary path, optional
	Langs string // e.g. "chi_sim+eng"

	once       sync.Once
	binary     string
	resolveErr error
}

// New creates an Engine. Empty langs falls back to DefaultLangs.
func New(path, langs string) *Engine {
	if langs == "" {
		langs = DefaultLangs
	}
	return &Engine{Path: path, Langs: langs}
}

func (e *Engine) resolve() (string, error) {
	e.once.Do(func() {
		if e.Path != "" {
			if _, err := os.Stat(e.Path); err != nil {
				e.resolveErr = fmt.Errorf("tesseract binary not found at %s: %w", e.Path, err)
				return
			}
			e.binary = e.Path
			return
		}
		if env := os.Getenv(EnvBinary); env != "" {
			e.binary = env
			return
		}
		bin, err := exec.LookPath("tesseract")
		if err != nil {
			e.resolveErr = fmt.Errorf("tesseract not found in PATH (set %s or install it): %w", EnvBinary, err)
			return
		}
		e.binary = bin
	})
	return e.binary, e.resolveErr
}

// Recognize runs OCR over the encoded image and returns the raw recognized
// text. Any process failure is returned with the captured stderr.
func (e *Engine) Recognize(ctx context.Context, image []byte) (string, error) {
	bin, err := e.resolve()
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, bin, "stdin", "stdout", "-l", e.Langs)
	cmd.Stdin = bytes.NewReader(image)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}
