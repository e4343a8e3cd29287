package extract

// Kind identifies the artifact category an upload was classified into.
type Kind string

const (
	KindCode      Kind = "code"
	KindMarkdown  Kind = "markdown"
	KindImage     Kind = "image"
	KindDocument  Kind = "document"
	KindPlainText Kind = "text"
)

// Character caps applied after normalization.
const (
	MaxTextLen = 5000 // code, markdown, documents, plain text
	MaxOCRLen  = 2000 // image-derived text
)

// Cap returns the normalization cap for this kind.
func (k Kind) Cap() int {
	if k == KindImage {
		return MaxOCRLen
	}
	return MaxTextLen
}

// ContentContext is the canonical representation of one ingested artifact.
// It is created once per upload and replaced wholesale by the next one.
type ContentContext struct {
	Kind       Kind   `json:"type"`
	Language   string `json:"language,omitempty"` // file extension tag, code only
	Text       string `json:"content"`
	SourcePath string `json:"file_path"`
}
