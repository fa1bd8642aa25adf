// Package processor runs the batch: every PDF in the input directory is
// extracted, analyzed and written to the output directory as JSON.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Cortexa-LLC/mcp/src/pdfsummary/analyze"
	"github.com/Cortexa-LLC/mcp/src/pdfsummary/config"
	"github.com/Cortexa-LLC/mcp/src/pdfsummary/extract"
)

var (
	// ErrInterrupted is returned by Run when ctx is cancelled between files.
	ErrInterrupted = errors.New("processing interrupted")

	// ErrFileTooLarge rejects files above Config.MaxFileSizeBytes.
	ErrFileTooLarge = errors.New("file too large")
)

const pdfPattern = "*.pdf"

// Extractor produces a document from a PDF path. *extract.Chain implements it.
type Extractor interface {
	Extract(ctx context.Context, path string) extract.Result
}

// Report counts the outcome of one Run.
type Report struct {
	Found      int
	Successful int
	Failed     int
	Elapsed    time.Duration
}

// Processor owns the directories, the extraction chain and the analyzer.
type Processor struct {
	cfg       *config.Config
	logger    *zap.Logger
	out       io.Writer
	extractor Extractor
	analyzer  analyze.Analyzer
}

// New returns a Processor using the default extraction chain. Human-readable
// progress text goes to out; pass io.Discard to silence it.
func New(cfg *config.Config, logger *zap.Logger, out io.Writer) *Processor {
	if out == nil {
		out = io.Discard
	}
	return &Processor{
		cfg:       cfg,
		logger:    logger,
		out:       out,
		extractor: extract.New(logger),
	}
}

// Config returns the configuration the processor was built with.
func (p *Processor) Config() *config.Config { return p.cfg }

// Strategies lists the extraction backends in the order they are tried, when
// the extractor can report them.
func (p *Processor) Strategies() []string {
	if n, ok := p.extractor.(interface{ Names() []string }); ok {
		return n.Names()
	}
	return nil
}

// Run processes every PDF directly inside the input directory, in directory
// listing order. A failing file is counted and skipped. Cancelling ctx stops
// the run before the next file and returns ErrInterrupted with the partial
// report.
func (p *Processor) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	run := *p
	run.logger = p.logger.With(zap.String("run_id", uuid.NewString()))

	for _, dir := range []string{p.cfg.InputDir, p.cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Report{}, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	run.logger.Info("starting pdf processing")
	run.logger.Info("input directory", zap.String("path", absPath(p.cfg.InputDir)))
	run.logger.Info("output directory", zap.String("path", absPath(p.cfg.OutputDir)))

	files, err := listPDFs(p.cfg.InputDir)
	if err != nil {
		return Report{}, err
	}
	if len(files) == 0 {
		run.logger.Warn("no pdf files found", zap.String("dir", p.cfg.InputDir))
		run.logger.Info("place pdf files in the input directory and run again")
		run.printGuidance()
		return Report{Elapsed: time.Since(start)}, nil
	}

	run.logger.Info("found pdf files to process", zap.Int("count", len(files)))
	run.printFound(files)

	report := Report{Found: len(files)}
	for _, path := range files {
		if ctx.Err() != nil {
			report.Elapsed = time.Since(start)
			run.logger.Warn("processing interrupted",
				zap.Int("successful", report.Successful),
				zap.Int("failed", report.Failed))
			return report, ErrInterrupted
		}
		if err := run.ProcessFile(ctx, path); err != nil {
			report.Failed++
		} else {
			report.Successful++
		}
	}
	report.Elapsed = time.Since(start)

	run.printSummary(report)
	return report, nil
}

// listPDFs returns the files in dir whose names match *.pdf. Symlinks are
// followed and kept when they resolve to a regular file.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if ok, _ := filepath.Match(pdfPattern, e.Name()); !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if isRegular(e, path) {
			files = append(files, path)
		}
	}
	return files, nil
}

func isRegular(e os.DirEntry, path string) bool {
	if e.Type()&os.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
