// Package pdftest builds small real PDF files for tests.
//
// Text is placed with absolute coordinates in points from the top-left corner
// of an A4 page using the Helvetica core font, so extraction results are
// predictable.
package pdftest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
)

// A4 page size in points, as written to the MediaBox.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

const (
	left       = 72.0
	top        = 72.0
	lineHeight = 18.0
	colWidth   = 120.0
	fontSize   = 11.0
)

// Item is one string drawn at (X, Y).
type Item struct {
	X, Y float64
	Text string
}

// Page lists the strings drawn on one page.
type Page struct {
	Items []Item
}

// Lines lays out each string on its own line, top to bottom.
func Lines(lines ...string) Page {
	var p Page
	for i, l := range lines {
		p.Items = append(p.Items, Item{X: left, Y: top + float64(i)*lineHeight, Text: l})
	}
	return p
}

// Table appends a grid below the page's existing content, one column every
// colWidth points.
func (p Page) Table(rows ...[]string) Page {
	y := top
	for _, it := range p.Items {
		if it.Y+lineHeight > y {
			y = it.Y + lineHeight
		}
	}
	for r, cells := range rows {
		for c, text := range cells {
			p.Items = append(p.Items, Item{
				X:    left + float64(c)*colWidth,
				Y:    y + float64(r)*lineHeight,
				Text: text,
			})
		}
	}
	return p
}

// Bytes renders the pages as a PDF document.
func Bytes(t testing.TB, pages ...Page) []byte {
	t.Helper()

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetCompression(true)
	doc.SetFont("Helvetica", "", fontSize)
	for _, p := range pages {
		doc.AddPage()
		for _, it := range p.Items {
			doc.Text(it.X, it.Y, it.Text)
		}
	}

	path := filepath.Join(t.TempDir(), "fixture.pdf")
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("pdftest: render: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("pdftest: read back: %v", err)
	}
	return data
}

// Write renders the pages to dir/name and returns the path.
func Write(t testing.TB, dir, name string, pages ...Page) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Bytes(t, pages...), 0o600); err != nil {
		t.Fatalf("pdftest: write %s: %v", path, err)
	}
	return path
}
