package model

// Table is a detected table grid: rows of cell strings.
type Table [][]string

// Page is the extracted content of a single PDF page.
type Page struct {
	PageNumber int     `json:"page_number"`
	Text       string  `json:"text"`
	Tables     []Table `json:"tables"`
	// Width and Height are only known when the layout backend read the page.
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Document is the normalized result of one extraction attempt.
type Document struct {
	TotalPages int    `json:"total_pages"`
	FullText   string `json:"full_text"`
	Pages      []Page `json:"pages"`
}

// EmptyDocument returns the failure sentinel: no pages, no text.
func EmptyDocument() Document {
	return Document{Pages: []Page{}}
}

// HasText reports whether extraction produced any text at all.
func (d Document) HasText() bool {
	return d.FullText != ""
}

// Tables returns every table of every page, in page order.
func (d Document) Tables() []Table {
	tables := []Table{}
	for _, p := range d.Pages {
		tables = append(tables, p.Tables...)
	}
	return tables
}

// Extraction method labels written to metadata.extraction_method.
// "pdfplumber" is the label existing consumers of the JSON expect for any
// document that yielded text, whichever backend produced it.
const (
	MethodExtracted = "pdfplumber"
	MethodFailed    = "failed"
)

// Stats holds counts derived from the full text and pages.
type Stats struct {
	TotalPages     int `json:"total_pages"`
	WordCount      int `json:"word_count"`
	CharacterCount int `json:"character_count"`
	ParagraphCount int `json:"paragraph_count"`
	TableCount     int `json:"table_count"`
}

// ContentStructure is the bounded sample of classified content.
type ContentStructure struct {
	Headings   []string `json:"headings"`
	Paragraphs []string `json:"paragraphs"`
	Tables     []Table  `json:"tables"`
}

// Metadata describes how and when a summary was produced.
type Metadata struct {
	ExtractionMethod    string  `json:"extraction_method"`
	ProcessingTimestamp float64 `json:"processing_timestamp"`
}

// Summary is the structure analysis of one document.
type Summary struct {
	DocumentStats    Stats            `json:"document_stats"`
	ContentStructure ContentStructure `json:"content_structure"`
	Metadata         Metadata         `json:"metadata"`
}

// Output is the record written to <stem>.json for one input file.
type Output struct {
	Filename       string  `json:"filename"`
	ProcessingTime float64 `json:"processing_time"`
	Document
	Summary
}
