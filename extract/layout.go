package extract

// layout.go: primary backend, positioned text via github.com/ledongthuc/pdf.
//
// Every page yields its text in reading order, the table grids found in it and
// its MediaBox size. The parser panics on some malformed files; a panic is
// treated like any other failure of the attempt.

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/Cortexa-LLC/mcp/src/pdfsummary/model"
)

// maxParentDepth bounds the walk up the page tree when looking for an
// inherited MediaBox.
const maxParentDepth = 32

// tableFinder extracts table grids from the rows of one page.
type tableFinder func(rows []row) ([]model.Table, error)

// Layout is the primary extraction strategy.
type Layout struct {
	logger     *zap.Logger
	findTables tableFinder
}

// NewLayout returns a Layout strategy using the aligned-rows table detector.
func NewLayout(logger *zap.Logger) *Layout {
	return &Layout{logger: logger, findTables: detectTables}
}

func (l *Layout) Name() string { return "layout" }

// Extract reads every page of the file. Any failure while opening the file or
// reading page text returns the empty sentinel and an error; a failure while
// detecting tables only empties that page's tables.
func (l *Layout) Extract(_ context.Context, path string) (doc model.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = model.EmptyDocument(), fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return model.EmptyDocument(), fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	numPages := r.NumPage()
	pages := make([]model.Page, 0, numPages)
	var fullText strings.Builder

	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		page := model.Page{PageNumber: i, Tables: []model.Table{}}
		if !p.V.IsNull() {
			rows := groupRows(pageGlyphs(p))
			page.Text = rowsText(rows)
			page.Tables = l.pageTables(path, i, rows)
			page.Width, page.Height = pageSize(p)
		}
		fullText.WriteString(page.Text)
		fullText.WriteByte('\n')
		pages = append(pages, page)
	}

	return model.Document{
		TotalPages: numPages,
		FullText:   fullText.String(),
		Pages:      pages,
	}, nil
}

// pageTables runs the table finder, containing its failures to this page.
func (l *Layout) pageTables(path string, pageNum int, rows []row) (tables []model.Table) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Warn("table detection failed",
				zap.String("file", filepath.Base(path)),
				zap.Int("page", pageNum),
				zap.Any("panic", r))
			tables = []model.Table{}
		}
	}()

	tables, err := l.findTables(rows)
	if err != nil {
		l.logger.Warn("table detection failed",
			zap.String("file", filepath.Base(path)),
			zap.Int("page", pageNum),
			zap.Error(err))
		return []model.Table{}
	}
	if tables == nil {
		return []model.Table{}
	}
	return tables
}

func pageGlyphs(p pdf.Page) []glyph {
	content := p.Content()
	glyphs := make([]glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
	}
	return glyphs
}

// pageSize reads the page MediaBox, inherited from an ancestor when the page
// does not carry its own. Both results are nil when no valid box exists.
func pageSize(p pdf.Page) (width, height *float64) {
	v := p.V
	for depth := 0; depth < maxParentDepth && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return &w, &h
			}
		}
		v = v.Key("Parent")
	}
	return nil, nil
}
