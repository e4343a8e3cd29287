// Package mcp exposes extraction and analysis as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/duynguyendang/cca/pkg/analyze"
	"github.com/duynguyendang/cca/pkg/extract"
)

// MCPServer wraps the extraction service and analyzer for MCP clients.
type MCPServer struct {
	extractor *extract.Service
	analyzer  *analyze.Analyzer
}

// Run starts the MCP server on Stdio.
func Run(ctx context.Context, extractor *extract.Service) error {
	s := server.NewMCPServer(
		"CCA-Backend",
		"0.1.0",
		server.WithLogging(),
	)

	ms := &MCPServer{
		extractor: extractor,
		analyzer:  analyze.NewAnalyzer(),
	}

	// Tool: Extract File
	s.AddTool(
		mcp.NewTool(
			"extract_file",
			mcp.WithDescription("Extract and normalize the text content of a local file (code, markdown, image, pdf, docx)."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path of the file to extract")),
		),
		ms.handleExtractFile,
	)

	// Tool: Analyze Code
	s.AddTool(
		mcp.NewTool(
			"analyze_code",
			mcp.WithDescription("Run local structural analysis over a code snippet. Falls back to text statistics when the snippet does not parse."),
			mcp.WithString("code", mcp.Required(), mcp.Description("The source code to analyze")),
			mcp.WithString("language", mcp.Description("Language tag (py, go, js, ts). Defaults to py.")),
		),
		ms.handleAnalyzeCode,
	)

	slog.Info("Starting MCP server on Stdio")
	return server.ServeStdio(s)
}

func (ms *MCPServer) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path argument required"), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read failed: %v", err)), nil
	}

	cc, err := ms.extractor.Extract(ctx, filepath.Base(path), data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(cc, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal context"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *MCPServer) handleAnalyzeCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	code, ok := args["code"].(string)
	if !ok {
		return mcp.NewToolResultError("code argument required"), nil
	}
	language, _ := args["language"].(string)

	result := ms.analyzer.Local(code, language)
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal analysis"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
