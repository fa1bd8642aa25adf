// Package report renders summaries as Markdown for the MCP describe tool.
package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Cortexa-LLC/mcp/src/pdfsummary/model"
)

const minColWidth = 3 // minimum separator width for a valid Markdown table (---)

// Markdown renders out as a Markdown document: stats, headings, paragraphs
// and every table as a GitHub-Flavored Markdown table.
func Markdown(out model.Output) string {
	var sb strings.Builder

	stats := out.DocumentStats
	fmt.Fprintf(&sb, "# %s\n\n", out.Filename)
	sb.WriteString("## Document Stats\n")
	fmt.Fprintf(&sb, "- Pages: %d\n", stats.TotalPages)
	fmt.Fprintf(&sb, "- Words: %d\n", stats.WordCount)
	fmt.Fprintf(&sb, "- Characters: %d\n", stats.CharacterCount)
	fmt.Fprintf(&sb, "- Paragraphs: %d\n", stats.ParagraphCount)
	fmt.Fprintf(&sb, "- Tables: %d\n", stats.TableCount)
	fmt.Fprintf(&sb, "- Extraction method: %s\n", out.Metadata.ExtractionMethod)
	fmt.Fprintf(&sb, "- Processing time: %.2fs\n", out.ProcessingTime)

	if h := out.ContentStructure.Headings; len(h) > 0 {
		sb.WriteString("\n## Headings\n")
		for _, line := range h {
			sb.WriteString("- " + line + "\n")
		}
	}

	if p := out.ContentStructure.Paragraphs; len(p) > 0 {
		sb.WriteString("\n## Paragraphs\n")
		for _, line := range p {
			sb.WriteString("\n" + line + "\n")
		}
	}

	if tables := captionedTables(out); len(tables) > 0 {
		sb.WriteString("\n## Tables\n")
		for _, t := range tables {
			fmt.Fprintf(&sb, "\n### %s\n\n", t.caption)
			sb.WriteString(Table(t.grid))
		}
	}

	return sb.String()
}

type captioned struct {
	caption string
	grid    model.Table
}

// captionedTables names each table after the page it was found on. Summaries
// whose pages carry no tables fall back to the flat list in content order.
func captionedTables(out model.Output) []captioned {
	var tables []captioned
	for _, page := range out.Pages {
		for i, t := range page.Tables {
			tables = append(tables, captioned{
				caption: fmt.Sprintf("Page %d, table %d", page.PageNumber, i+1),
				grid:    t,
			})
		}
	}
	if len(tables) > 0 {
		return tables
	}
	for i, t := range out.ContentStructure.Tables {
		tables = append(tables, captioned{caption: fmt.Sprintf("Table %d", i+1), grid: t})
	}
	return tables
}

// Table renders a grid as a GitHub-Flavored Markdown table with the first row
// as header. Ragged rows are padded with empty cells and every column is at
// least minColWidth runes wide.
func Table(t model.Table) string {
	grid := normalize(t)
	if len(grid) == 0 {
		return ""
	}
	widths := columnWidths(grid)

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}

	var sb strings.Builder
	writeTableRow(&sb, grid[0], widths)
	writeTableRow(&sb, sep, widths)
	for _, row := range grid[1:] {
		writeTableRow(&sb, row, widths)
	}
	return sb.String()
}

// normalize escapes every cell and pads rows to the widest row. A grid with no
// cells at all yields nil.
func normalize(t model.Table) [][]string {
	cols := 0
	for _, row := range t {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}
	grid := make([][]string, len(t))
	for r, row := range t {
		grid[r] = make([]string, cols)
		for c, v := range row {
			grid[r][c] = escapeCell(v)
		}
	}
	return grid
}

func columnWidths(grid [][]string) []int {
	widths := make([]int, len(grid[0]))
	for c := range widths {
		widths[c] = minColWidth
		for _, row := range grid {
			widths[c] = max(widths[c], utf8.RuneCountInString(row[c]))
		}
	}
	return widths
}

func writeTableRow(sb *strings.Builder, cells []string, widths []int) {
	sb.WriteByte('|')
	for c, v := range cells {
		sb.WriteString(" " + v + strings.Repeat(" ", widths[c]-utf8.RuneCountInString(v)) + " |")
	}
	sb.WriteByte('\n')
}

// escapeCell keeps a cell on one table line: pipes are escaped and line
// breaks become spaces.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
