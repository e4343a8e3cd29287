package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/duynguyendang/cca/pkg/common/errors"
	"github.com/ledongthuc/pdf"
)

// DocumentExtractor pulls plain text out of PDF and DOCX payloads.
type DocumentExtractor struct{}

// Extract picks the concrete parser by extension suffix of the original
// filename. Both parsers treat structural failure as ErrExtraction.
func (e *DocumentExtractor) Extract(filename string, data []byte) (string, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return extractPDF(data)
	case strings.HasSuffix(lower, ".docx"):
		return extractDOCX(data)
	}
	return "", errors.ErrUnsupportedFormat
}

// extractPDF concatenates the plain text of every page in document order.
// A page that yields no text contributes nothing; only a file the reader
// cannot open at all is an error.
func extractPDF(data []byte) (text string, err error) {
	// The pdf library panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdf: %v", errors.ErrExtraction, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", errors.ErrExtraction, err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable page, empty contribution.
			continue
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}

// extractDOCX reads word/document.xml out of the zip container and collects
// the text runs, one line per paragraph.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", errors.ErrExtraction, err)
	}

	var doc io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("%w: docx: %v", errors.ErrExtraction, err)
			}
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("%w: docx: missing word/document.xml", errors.ErrExtraction)
	}
	defer doc.Close()

	var sb strings.Builder
	dec := xml.NewDecoder(doc)
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: docx: %v", errors.ErrExtraction, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
