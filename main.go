package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/duynguyendang/cca/internal/ocr"
	"github.com/duynguyendang/cca/pkg/analyze"
	"github.com/duynguyendang/cca/pkg/auth"
	"github.com/duynguyendang/cca/pkg/chat"
	"github.com/duynguyendang/cca/pkg/extract"
	"github.com/duynguyendang/cca/pkg/llm"
	"github.com/duynguyendang/cca/pkg/mcp"
	"github.com/duynguyendang/cca/pkg/repl"
	"github.com/duynguyendang/cca/pkg/server"
)

func main() {
	// Define flags
	serverMode := flag.Bool("server", false, "run the extraction/OCR/analysis REST server")
	mcpMode := flag.Bool("mcp", false, "run as an MCP stdio server")
	tesseractPath := flag.String("tesseract", "", "explicit path to the tesseract binary")

	flag.Parse() // Parse flags early

	_ = godotenv.Load()

	engine := ocr.New(*tesseractPath, os.Getenv("OCR_LANGS"))

	if *mcpMode {
		extractor := extract.NewService(engine, nil)
		if err := mcp.Run(context.Background(), extractor); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}
		return
	}

	if *serverMode {
		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		defer logger.Sync()

		token := os.Getenv("TOKEN")
		if token == "" {
			logger.Warn("TOKEN not set: all authenticated endpoints will reject requests")
		}

		provider, err := llm.FromEnv()
		if err != nil {
			logger.Warn("remote analysis disabled", zap.Error(err))
		}

		verifier := auth.NewVerifier(token, logger)
		extractor := extract.NewService(engine, logger)
		srv := server.NewServer(verifier, extractor, analyze.NewEngine(provider), logger)

		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		fmt.Printf("Starting REST API server on :%s\n", port)
		if err := srv.Run(":" + port); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	// === Interactive Mode ===

	provider, err := llm.FromEnv()
	if err != nil {
		log.Fatalf("No language-model provider available: %v", err)
	}

	cfg := repl.DefaultConfig()
	cfg.Token = os.Getenv("TOKEN")
	if cfg.Token == "" {
		fmt.Println("⚠️ TOKEN not set: extraction services will reject uploads")
	}
	if url := os.Getenv("DOC_SERVICE_URL"); url != "" {
		cfg.DocServiceURL = url
	}
	if url := os.Getenv("OCR_SERVICE_URL"); url != "" {
		cfg.OCRServiceURL = url
	}
	if v := os.Getenv("CCA_MAX_HISTORY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxHistory = n
		}
	}

	session, err := chat.NewSession(provider, cfg.MaxHistory)
	if err != nil {
		log.Fatalf("Failed to initialize session: %v", err)
	}

	repl.Run(context.Background(), cfg, session)
}
