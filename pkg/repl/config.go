package repl

// Config holds configuration for the interactive session.
type Config struct {
	// Token is the shared secret presented to the extraction services.
	Token string
	// DocServiceURL is the document-extraction service base URL.
	DocServiceURL string
	// OCRServiceURL is the OCR service base URL.
	OCRServiceURL string
	// MaxHistory bounds the stored conversation history (messages).
	MaxHistory int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		DocServiceURL: "http://localhost:4000",
		OCRServiceURL: "http://localhost:4001",
	}
}
