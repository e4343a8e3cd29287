package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"unicode/utf8"

	_ "image/jpeg"

	"github.com/duynguyendang/cca/pkg/common/errors"
	"github.com/nfnt/resize"
)

// MaxImageDim is the largest width or height fed to recognition. Bigger
// images are downscaled preserving aspect ratio first.
const MaxImageDim = 2000

// Recognizer is the OCR backend contract: encoded image in, best-effort
// text out.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// ImageExtractor decodes an uploaded image and runs it through OCR.
type ImageExtractor struct {
	OCR Recognizer
}

// Extract returns the recognized text, trimmed and truncated to MaxOCRLen
// characters. Decode and recognition failures surface as extraction errors,
// never as silently empty text.
func (e *ImageExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: image decode: %v", errors.ErrExtraction, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxImageDim || bounds.Dy() > MaxImageDim {
		img = resize.Thumbnail(MaxImageDim, MaxImageDim, img, resize.Lanczos3)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return "", fmt.Errorf("%w: image re-encode: %v", errors.ErrExtraction, err)
		}
		data = buf.Bytes()
	}

	text, err := e.OCR.Recognize(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w: ocr: %v", errors.ErrExtraction, err)
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > MaxOCRLen {
		text = string([]rune(text)[:MaxOCRLen])
	}
	return text, nil
}
