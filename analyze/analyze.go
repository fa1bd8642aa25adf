// Package analyze derives document statistics and a small sample of
// classified content (headings, paragraphs, tables) from extracted text.
package analyze

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Cortexa-LLC/mcp/src/pdfsummary/model"
)

const (
	// MaxHeadings and MaxParagraphs bound the content sample. Stats always
	// count every classified line.
	MaxHeadings   = 10
	MaxParagraphs = 5

	// headingMaxWords is the largest token count a heading may have; lines
	// with more tokens are paragraphs.
	headingMaxWords = 10
)

// Analyzer turns documents into summaries. Now supplies the processing
// timestamp and defaults to time.Now.
type Analyzer struct {
	Now func() time.Time
}

// Analyze is Analyzer{}.Analyze.
func Analyze(doc model.Document) model.Summary {
	return Analyzer{}.Analyze(doc)
}

// Analyze classifies the lines of doc.FullText and computes its stats.
func (a Analyzer) Analyze(doc model.Document) model.Summary {
	if doc.FullText == "" {
		return model.Summary{
			ContentStructure: model.ContentStructure{
				Headings:   []string{},
				Paragraphs: []string{},
				Tables:     []model.Table{},
			},
			Metadata: model.Metadata{
				ExtractionMethod:    model.MethodFailed,
				ProcessingTimestamp: a.timestamp(),
			},
		}
	}

	headings, paragraphs := classifyLines(doc.FullText)
	tables := doc.Tables()

	return model.Summary{
		DocumentStats: model.Stats{
			TotalPages:     doc.TotalPages,
			WordCount:      len(strings.Fields(doc.FullText)),
			CharacterCount: utf8.RuneCountInString(doc.FullText),
			ParagraphCount: len(paragraphs),
			TableCount:     len(tables),
		},
		ContentStructure: model.ContentStructure{
			Headings:   firstN(headings, MaxHeadings),
			Paragraphs: firstN(paragraphs, MaxParagraphs),
			Tables:     tables,
		},
		Metadata: model.Metadata{
			ExtractionMethod:    model.MethodExtracted,
			ProcessingTimestamp: a.timestamp(),
		},
	}
}

// classifyLines returns every heading and paragraph candidate in line order.
func classifyLines(text string) (headings, paragraphs []string) {
	headings, paragraphs = []string{}, []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		words := len(strings.Fields(line))
		switch {
		case words <= headingMaxWords && (IsUpper(line) || IsTitle(line)):
			headings = append(headings, line)
		case words > headingMaxWords:
			paragraphs = append(paragraphs, line)
		}
	}
	return headings, paragraphs
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (a Analyzer) timestamp() float64 {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return float64(now().UnixNano()) / float64(time.Second)
}
