package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/Cortexa-LLC/mcp/src/pdfsummary/config"
	"github.com/Cortexa-LLC/mcp/src/pdfsummary/logging"
	"github.com/Cortexa-LLC/mcp/src/pdfsummary/processor"
)

// Server identity constants.
const (
	serverName    = "pdfsummary"
	serverVersion = "0.1.0"
)

// exitInterrupted follows the shell convention for SIGINT.
const exitInterrupted = 130

func main() {
	os.Exit(run())
}

func run() int {
	mcpMode := flag.Bool("mcp", false, "serve the summarize tools over MCP stdio instead of processing the input folder")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(serverName, serverVersion)
		return 0
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if *mcpMode {
		return serveMCP(cfg, logger)
	}
	// The file in progress still completes after the first signal.
	ctx, stop := interruptContext()
	defer stop()
	return runBatch(ctx, processor.New(cfg, logger, os.Stdout), logger, os.Stdout)
}

// batchRunner is the part of *processor.Processor the batch mode needs.
type batchRunner interface {
	Run(ctx context.Context) (processor.Report, error)
}

// interruptContext is cancelled by the first SIGINT or SIGTERM. Signal
// handling is then reset, so a second signal terminates the process even while
// a file is still being processed.
func interruptContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

// runBatch processes the input folder once. Interrupts and unexpected
// failures, panics included, end in a message on out rather than a crash
// trace.
func runBatch(ctx context.Context, r batchRunner, logger *zap.Logger, out io.Writer) (code int) {
	defer func() {
		if rec := recover(); rec != nil {
			code = reportFailure(logger, out, fmt.Errorf("panic: %v", rec))
		}
	}()

	_, err := r.Run(ctx)
	switch {
	case errors.Is(err, processor.ErrInterrupted):
		fmt.Fprintln(out, "\n\nProcessing interrupted by user")
		return exitInterrupted
	case err != nil:
		return reportFailure(logger, out, err)
	}
	return 0
}

func reportFailure(logger *zap.Logger, out io.Writer, err error) int {
	logger.Error("unexpected error", zap.Error(err))
	fmt.Fprintf(out, "\nAn error occurred: %v\n", err)
	fmt.Fprintln(out, "Please check your PDF files and try again")
	return 1
}

// serveMCP exposes the processor as MCP tools. Stdout carries the protocol,
// so progress text is discarded and logs stay on stderr.
func serveMCP(cfg *config.Config, logger *zap.Logger) int {
	s := server.NewMCPServer(serverName, serverVersion)
	registerTools(s, processor.New(cfg, logger, io.Discard))

	if err := server.ServeStdio(s); err != nil {
		logger.Error("server error", zap.Error(err))
		return 1
	}
	return 0
}
