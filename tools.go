package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Cortexa-LLC/mcp/src/pdfsummary/config"
	"github.com/Cortexa-LLC/mcp/src/pdfsummary/model"
	"github.com/Cortexa-LLC/mcp/src/pdfsummary/processor"
	"github.com/Cortexa-LLC/mcp/src/pdfsummary/report"
)

// MCP tool parameter keys, shared by the schema definitions and argument
// extraction.
const (
	argPath = "path"
)

// summarizer is the part of *processor.Processor the tools need; tests inject
// a stub.
type summarizer interface {
	Summarize(ctx context.Context, path string) (model.Output, error)
	Config() *config.Config
	Strategies() []string
}

// registerTools binds MCP tool definitions to their handlers.
func registerTools(s *server.MCPServer, svc summarizer) {
	// summarize_pdf: JSON summary of one file
	s.AddTool(
		mcp.NewTool("summarize_pdf",
			mcp.WithDescription("Extract text and tables from a PDF and return its JSON summary: "+
				"page texts, word/character/paragraph/table counts, headings and paragraphs. Nothing is written to disk."),
			mcp.WithString(argPath,
				mcp.Required(),
				mcp.Description("Path to the PDF file"),
			),
		),
		summarizeHandler(svc),
	)

	// describe_pdf: the same summary as a Markdown report
	s.AddTool(
		mcp.NewTool("describe_pdf",
			mcp.WithDescription("Summarize a PDF as Markdown: document stats, headings, paragraphs and tables."),
			mcp.WithString(argPath,
				mcp.Required(),
				mcp.Description("Path to the PDF file"),
			),
		),
		describeHandler(svc),
	)

	// get_processing_info: backends and configuration
	s.AddTool(
		mcp.NewTool("get_processing_info",
			mcp.WithDescription("Return the extraction backends, limits and directories in use."),
		),
		infoHandler(svc),
	)
}

func pathArg(req mcp.CallToolRequest) (string, bool) {
	path, ok := req.Params.Arguments[argPath].(string)
	return path, ok && strings.TrimSpace(path) != ""
}

func summarizeHandler(svc summarizer) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, ok := pathArg(req)
		if !ok {
			return mcp.NewToolResultError(argPath + " is required"), nil
		}
		out, err := svc.Summarize(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := processor.MarshalOutput(out)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

func describeHandler(svc summarizer) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, ok := pathArg(req)
		if !ok {
			return mcp.NewToolResultError(argPath + " is required"), nil
		}
		out, err := svc.Summarize(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(report.Markdown(out)), nil
	}
}

func infoHandler(svc summarizer) server.ToolHandlerFunc {
	return func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(processingInfo(svc)), nil
	}
}

func processingInfo(svc summarizer) string {
	cfg := svc.Config()
	return fmt.Sprintf(`# PDF Summary Processing Info

## Extraction Backends (tried in order)
%s

## Configuration
- Max file size: %d MB
- Input directory: %s
- Output directory: %s
- Table export (XLSX): %t`,
		"- "+strings.Join(svc.Strategies(), "\n- "),
		cfg.MaxFileSizeMB(),
		cfg.InputDir,
		cfg.OutputDir,
		cfg.ExportTables,
	)
}
