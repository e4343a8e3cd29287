// Package repl is the interactive command loop: upload a file, then talk
// about it.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/duynguyendang/cca/pkg/chat"
	"github.com/duynguyendang/cca/pkg/extract"
)

// Run starts the interactive loop. One command is processed at a time; the
// loop does not read the next line until the current command fully resolves.
func Run(ctx context.Context, cfg Config, session *chat.Session) {
	fmt.Println("🚀 Welcome!")
	fmt.Println("📁 Upload a file first:")
	fmt.Println("   Supported: .py .js .java .cpp .c .go .md .txt .sh .yaml .yml .png .jpg .jpeg .pdf .docx")
	fmt.Println("   Command: upload <path>")
	fmt.Println("   Reset:   clear")
	fmt.Println("   Exit:    quit or exit")

	docClient := NewServiceClient(cfg.DocServiceURL, cfg.Token)
	ocrClient := NewServiceClient(cfg.OCRServiceURL, cfg.Token)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("\n>>> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "quit" || line == "exit" || line == "q":
			fmt.Println("👋 Bye!")
			return

		case strings.HasPrefix(line, "upload "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "upload "))
			uploadAndSeed(ctx, session, docClient, ocrClient, path)

		case line == "clear":
			session.Clear()
			fmt.Println("🧹 Conversation history cleared")

		default:
			if !session.Seeded() {
				if hint := suggestCommand(line); hint != "" {
					fmt.Printf("❌ Unknown command. Did you mean '%s'?\n", hint)
					continue
				}
				fmt.Println("❌ Upload a file first! Use 'upload <path>'")
				continue
			}
			reply, err := session.Chat(ctx, line)
			if err != nil {
				fmt.Printf("❌ Chat failed: %v\n", err)
				continue
			}
			fmt.Printf("\n🤖 %s\n", reply)
		}
	}
}

// uploadAndSeed runs the full ingestion path for one file: classify, extract
// (locally for text-like files, via the services for images and documents),
// then seed the conversation. A failure at any step leaves the previous
// session state intact.
func uploadAndSeed(ctx context.Context, session *chat.Session, docClient, ocrClient *ServiceClient, path string) {
	if path == "" {
		fmt.Println("Usage: upload <path>")
		return
	}

	kind, err := extract.Classify(path)
	if err != nil {
		fmt.Printf("❌ Unsupported file type: %s\n", path)
		return
	}

	fmt.Printf("📁 Processing file: %s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("❌ File not found: %s\n", path)
		return
	}

	var text string
	switch kind {
	case extract.KindImage:
		text, err = ocrClient.ExtractText(ctx, "/ocr", path, data)
	case extract.KindDocument:
		text, err = docClient.ExtractText(ctx, "/extract", path, data)
	default:
		var raw string
		raw, err = extract.DecodeText(data, kind)
		if err == nil {
			var cut bool
			text, cut = extract.Normalize(raw, kind.Cap())
			if cut {
				log.Printf("Warning: %s truncated to %d characters", path, kind.Cap())
			}
		}
	}
	if err != nil {
		fmt.Printf("❌ Extraction failed: %v\n", err)
		return
	}

	cc := &extract.ContentContext{
		Kind:       kind,
		Language:   extract.Language(path),
		Text:       text,
		SourcePath: path,
	}

	fmt.Println("💭 Thinking...")
	reply, err := session.Seed(ctx, cc)
	if err != nil {
		fmt.Printf("❌ Seed call failed: %v\n", err)
		return
	}
	fmt.Printf("\n🤖 %s\n", reply)
}
