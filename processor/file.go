package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Cortexa-LLC/mcp/src/pdfsummary/model"
)

// tablesSuffix names the optional spreadsheet written next to <stem>.json.
const tablesSuffix = "_tables.xlsx"

// Summarize extracts and analyzes one file without writing anything.
func (p *Processor) Summarize(ctx context.Context, path string) (out model.Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = model.Output{}, fmt.Errorf("summarize %s: panic: %v", filepath.Base(path), r)
		}
	}()

	start := time.Now()
	info, err := os.Stat(path)
	if err != nil {
		return model.Output{}, fmt.Errorf("file not found: %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return model.Output{}, fmt.Errorf("not a regular file: %s", path)
	}
	if info.Size() > p.cfg.MaxFileSizeBytes {
		return model.Output{}, fmt.Errorf("%w: %s is %d bytes (max %d)",
			ErrFileTooLarge, filepath.Base(path), info.Size(), p.cfg.MaxFileSizeBytes)
	}

	res := p.extractor.Extract(ctx, path)
	if res.Strategy != "" {
		p.logger.Debug("text extracted",
			zap.String("file", filepath.Base(path)),
			zap.String("strategy", res.Strategy))
	}
	summary := p.analyzer.Analyze(res.Document)

	return model.Output{
		Filename:       filepath.Base(path),
		ProcessingTime: time.Since(start).Seconds(),
		Document:       res.Document,
		Summary:        summary,
	}, nil
}

// ProcessFile summarizes one file and writes <stem>.json to the output
// directory, plus <stem>_tables.xlsx when table export is on and tables were
// found. Every failure, panics included, is logged and returned.
func (p *Processor) ProcessFile(ctx context.Context, path string) (err error) {
	name := filepath.Base(path)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("process %s: panic: %v", name, r)
		}
		if err != nil {
			p.logger.Error("failed to process file", zap.String("file", name), zap.Error(err))
		}
	}()

	p.logger.Info("processing file", zap.String("file", name))

	out, err := p.Summarize(ctx, path)
	if err != nil {
		return err
	}

	stem := outputStem(name)
	if err := writeJSON(filepath.Join(p.cfg.OutputDir, stem+".json"), out); err != nil {
		return err
	}
	if p.cfg.ExportTables && len(out.ContentStructure.Tables) > 0 {
		if err := writeTables(filepath.Join(p.cfg.OutputDir, stem+tablesSuffix), out.ContentStructure.Tables); err != nil {
			return err
		}
	}

	p.logger.Info("processed file",
		zap.String("file", name),
		zap.Float64("elapsed", out.ProcessingTime))
	return nil
}

// outputStem strips the extension from name. A name that is only an
// extension, such as ".pdf", is kept whole.
func outputStem(name string) string {
	if stem := strings.TrimSuffix(name, filepath.Ext(name)); stem != "" {
		return stem
	}
	return name
}

// writeJSON writes v indented by two spaces, leaving non-ASCII text and HTML
// characters unescaped.
func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := encodeJSON(f, v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// MarshalOutput renders out the same way it is written to disk.
func MarshalOutput(out model.Output) (string, error) {
	var sb strings.Builder
	if err := encodeJSON(&sb, out); err != nil {
		return "", fmt.Errorf("encode output: %w", err)
	}
	return sb.String(), nil
}
