package extract

// plaintext.go: fallback backend, page content streams via pdfcpu.
//
// No layout, no tables, no page sizes. The result is always a single page
// holding the text of the whole file, whatever the real page count.

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/Cortexa-LLC/mcp/src/pdfsummary/model"
)

var disableConfigDir sync.Once

// PlainText is the fallback extraction strategy.
type PlainText struct {
	logger *zap.Logger
}

// NewPlainText returns a PlainText strategy. pdfcpu is kept from creating its
// user configuration directory.
func NewPlainText(logger *zap.Logger) *PlainText {
	disableConfigDir.Do(api.DisableConfigDir)
	return &PlainText{logger: logger}
}

func (p *PlainText) Name() string { return "plaintext" }

// Extract never fails: read errors are logged and produce empty text.
func (p *PlainText) Extract(_ context.Context, path string) (model.Document, error) {
	text, err := readContentText(path)
	if err != nil {
		p.logger.Error("plain text extraction failed",
			zap.String("file", filepath.Base(path)),
			zap.Error(err))
		text = ""
	}
	return singlePageDocument(text), nil
}

func singlePageDocument(text string) model.Document {
	return model.Document{
		TotalPages: 1,
		FullText:   text,
		Pages:      []model.Page{{PageNumber: 1, Text: text, Tables: []model.Table{}}},
	}
}

// readContentText concatenates every page's text, each followed by a newline.
func readContentText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	ctx, err := api.ReadValidateAndOptimize(f, pdfmodel.NewDefaultConfiguration())
	if err != nil {
		return "", fmt.Errorf("pdfcpu read %s: %w", path, err)
	}

	var b strings.Builder
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return "", fmt.Errorf("read page %d content: %w", pageNr, err)
		}
		if r != nil {
			data, err := io.ReadAll(r)
			if err != nil {
				return "", fmt.Errorf("read page %d content: %w", pageNr, err)
			}
			b.WriteString(contentText(data))
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
