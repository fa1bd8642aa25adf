package processor

// console.go: progress and summary text for people running the batch.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var rule = strings.Repeat("=", 60)

func (p *Processor) printGuidance() {
	fmt.Fprintln(p.out, "\n"+rule)
	fmt.Fprintln(p.out, "INSTRUCTIONS:")
	fmt.Fprintf(p.out, "1. Place your PDF files in the '%s' folder\n", p.cfg.InputDir)
	fmt.Fprintln(p.out, "2. Run this program again")
	fmt.Fprintf(p.out, "3. Check results in the '%s' folder\n", p.cfg.OutputDir)
	fmt.Fprintln(p.out, rule)

	if wd, err := os.Getwd(); err == nil {
		fmt.Fprintf(p.out, "\nCurrent directory: %s\n", wd)
	}
	entries, err := os.ReadDir(p.cfg.InputDir)
	if err != nil || len(entries) == 0 {
		fmt.Fprintln(p.out, "Input folder is empty")
		return
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	fmt.Fprintf(p.out, "Files in input folder: %s\n", strings.Join(names, ", "))
}

func (p *Processor) printFound(files []string) {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	fmt.Fprintf(p.out, "\nFound PDF files: %s\n", strings.Join(names, ", "))
}

func (p *Processor) printSummary(r Report) {
	fmt.Fprintln(p.out, "\n"+rule)
	fmt.Fprintln(p.out, "PROCESSING SUMMARY:")
	fmt.Fprintf(p.out, "Successfully processed: %d files\n", r.Successful)
	if r.Failed > 0 {
		fmt.Fprintf(p.out, "Failed to process: %d files\n", r.Failed)
	}
	fmt.Fprintf(p.out, "Total processing time: %.2f seconds\n", r.Elapsed.Seconds())
	fmt.Fprintf(p.out, "Output location: %s\n", absPath(p.cfg.OutputDir))
	fmt.Fprintln(p.out, rule)

	if r.Successful == 0 {
		return
	}
	p.logger.Info("json outputs saved", zap.String("dir", p.cfg.OutputDir))
	fmt.Fprintf(p.out, "\nSuccess! Check the '%s' folder for JSON results\n", p.cfg.OutputDir)
	if outputs, err := filepath.Glob(filepath.Join(p.cfg.OutputDir, "*.json")); err == nil && len(outputs) > 0 {
		for i, o := range outputs {
			outputs[i] = filepath.Base(o)
		}
		fmt.Fprintf(p.out, "Generated files: %s\n", strings.Join(outputs, ", "))
	}
}
