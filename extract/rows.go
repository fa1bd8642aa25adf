package extract

// rows.go: reading order and table grids from positioned glyphs.
//
// Glyphs are grouped into rows by baseline, ordered left to right, and merged
// into cells wherever the horizontal gap is small. A row with a wide gap has
// several cells; consecutive rows whose cells line up form a table.

import (
	"math"
	"sort"
	"strings"

	"github.com/Cortexa-LLC/mcp/src/pdfsummary/model"
)

const (
	rowTolerance    = 3.0  // pt of baseline drift still counted as the same row
	cellGapFactor   = 2.0  // gap wider than this many font sizes starts a new cell
	wordGapFactor   = 0.15 // gap wider than this many font sizes is a space
	columnTolerance = 6.0  // pt of drift allowed between aligned cell starts
	defaultFontSize = 10.0 // used when a glyph reports no size
	minTableRows    = 2
	minTableCols    = 2
)

// glyph is one positioned piece of text as reported by the PDF backend.
type glyph struct {
	X, Y, W  float64
	FontSize float64
	S        string
}

type cell struct {
	X    float64
	Text string
}

type row struct {
	Y     float64
	Cells []cell
}

// Text joins the row's cells with single spaces.
func (r row) Text() string {
	parts := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		parts[i] = c.Text
	}
	return strings.Join(parts, " ")
}

// groupRows buckets glyphs by baseline, top of the page first. Glyph order
// within a row is by X; glyphs sharing an X keep their content stream order.
func groupRows(glyphs []glyph) []row {
	type bucket struct {
		yMin, yMax float64
		glyphs     []glyph
	}
	var buckets []bucket

	for _, g := range glyphs {
		found := false
		for i := range buckets {
			b := &buckets[i]
			if g.Y >= b.yMin-rowTolerance && g.Y <= b.yMax+rowTolerance {
				b.glyphs = append(b.glyphs, g)
				b.yMin = math.Min(b.yMin, g.Y)
				b.yMax = math.Max(b.yMax, g.Y)
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, bucket{yMin: g.Y, yMax: g.Y, glyphs: []glyph{g}})
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})

	rows := make([]row, 0, len(buckets))
	for _, b := range buckets {
		sort.SliceStable(b.glyphs, func(i, j int) bool {
			return b.glyphs[i].X < b.glyphs[j].X
		})
		if cells := buildCells(b.glyphs); len(cells) > 0 {
			rows = append(rows, row{Y: b.yMax, Cells: cells})
		}
	}
	return rows
}

// buildCells merges an X-ordered run of glyphs into cells.
func buildCells(glyphs []glyph) []cell {
	var (
		cells   []cell
		text    strings.Builder
		open    bool
		start   float64
		end     float64
		spacing bool
	)
	flush := func() {
		if open {
			cells = append(cells, cell{X: start, Text: strings.TrimSpace(text.String())})
		}
		text.Reset()
		open, spacing = false, false
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			if open {
				spacing = true
				end = math.Max(end, g.X+g.W)
			}
			continue
		}
		if open {
			size := g.FontSize
			if size <= 0 {
				size = defaultFontSize
			}
			gap := g.X - end
			switch {
			case gap > cellGapFactor*size:
				flush()
			case gap > wordGapFactor*size:
				spacing = true
			}
		}
		if !open {
			open, start, end = true, g.X, g.X
		}
		if spacing {
			text.WriteByte(' ')
			spacing = false
		}
		text.WriteString(g.S)
		end = math.Max(end, g.X+g.W)
	}
	flush()
	return cells
}

// rowsText renders rows as newline separated lines.
func rowsText(rows []row) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.Text()
	}
	return strings.Join(lines, "\n")
}

// detectTables returns one grid per run of aligned multi-cell rows.
func detectTables(rows []row) ([]model.Table, error) {
	tables := []model.Table{}
	for i := 0; i < len(rows); {
		if len(rows[i].Cells) < minTableCols {
			i++
			continue
		}
		j := i + 1
		for j < len(rows) && aligned(rows[i], rows[j]) {
			j++
		}
		if j-i < minTableRows {
			i++
			continue
		}
		grid := make(model.Table, 0, j-i)
		for _, r := range rows[i:j] {
			cells := make([]string, len(r.Cells))
			for k, c := range r.Cells {
				cells[k] = c.Text
			}
			grid = append(grid, cells)
		}
		tables = append(tables, grid)
		i = j
	}
	return tables, nil
}

// aligned reports whether b has the same columns as a.
func aligned(a, b row) bool {
	if len(a.Cells) != len(b.Cells) {
		return false
	}
	for k := range a.Cells {
		if math.Abs(a.Cells[k].X-b.Cells[k].X) > columnTolerance {
			return false
		}
	}
	return true
}
