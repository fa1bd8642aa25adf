// Package extract turns PDF files into model.Document values.
//
// Extraction is an ordered list of strategies. Each one is tried once, in
// order, until one yields non-empty text; the default chain is the layout
// backend (ledongthuc/pdf, text + tables + page size) followed by the plain
// text backend (pdfcpu).
package extract

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Cortexa-LLC/mcp/src/pdfsummary/model"
)

// Strategy is one extraction backend.
//
// A returned error means the attempt failed; the chain logs it and treats the
// attempt as having produced the empty sentinel document.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, path string) (model.Document, error)
}

// Result is the outcome of running a Chain on one file.
type Result struct {
	Document model.Document
	// Strategy names the backend that produced the text, or is empty when no
	// backend did.
	Strategy string
}

// Chain runs strategies in order until one yields text.
type Chain struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewChain builds a chain over the given strategies.
func NewChain(logger *zap.Logger, strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies, logger: logger}
}

// New returns the default two-tier chain: layout first, plain text second.
func New(logger *zap.Logger) *Chain {
	return NewChain(logger, NewLayout(logger), NewPlainText(logger))
}

// Names lists the strategies in the order they are tried.
func (c *Chain) Names() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Extract tries each strategy exactly once. When none yields text the document
// of the last attempt is returned, which for the default chain is the plain
// text backend's single empty page.
func (c *Chain) Extract(ctx context.Context, path string) Result {
	name := filepath.Base(path)
	doc := model.EmptyDocument()

	for i, s := range c.strategies {
		d, err := s.Extract(ctx, path)
		if err != nil {
			c.logger.Error("extraction failed",
				zap.String("file", name),
				zap.String("strategy", s.Name()),
				zap.Error(err))
			d = model.EmptyDocument()
		}
		doc = d
		if doc.HasText() {
			return Result{Document: doc, Strategy: s.Name()}
		}
		if i+1 < len(c.strategies) {
			c.logger.Warn("falling back to next extraction strategy",
				zap.String("file", name),
				zap.String("from", s.Name()),
				zap.String("to", c.strategies[i+1].Name()))
		}
	}
	return Result{Document: doc}
}
