package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/Cortexa-LLC/mcp/src/pdfsummary/config"
	"github.com/Cortexa-LLC/mcp/src/pdfsummary/extract"
	"github.com/Cortexa-LLC/mcp/src/pdfsummary/internal/pdftest"
	"github.com/Cortexa-LLC/mcp/src/pdfsummary/model"
)

const longLine = "This report covers the results of the first quarter and explains the main changes"

func newTestProcessor(t *testing.T) (*Processor, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.InputDir = filepath.Join(root, "input")
	cfg.OutputDir = filepath.Join(root, "output")
	var out bytes.Buffer
	return New(cfg, zaptest.NewLogger(t), &out), &out
}

func mkInput(t *testing.T, p *Processor) {
	t.Helper()
	require.NoError(t, os.MkdirAll(p.cfg.InputDir, 0o755))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readOutput(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func outputNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// panicExtractor panics on one file name and defers to next for the rest.
type panicExtractor struct {
	name string
	next Extractor
}

func (e panicExtractor) Extract(ctx context.Context, path string) extract.Result {
	if filepath.Base(path) == e.name {
		panic("parser exploded")
	}
	return e.next.Extract(ctx, path)
}

func TestRun_NoPDFsLeavesOutputUntouched(t *testing.T) {
	p, out := newTestProcessor(t)
	mkInput(t, p)
	require.NoError(t, os.MkdirAll(p.cfg.OutputDir, 0o755))
	writeFile(t, filepath.Join(p.cfg.InputDir, "notes.txt"), "not a pdf")
	writeFile(t, filepath.Join(p.cfg.OutputDir, "keep.json"), "{}")

	report, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Found)
	assert.Equal(t, []string{"keep.json"}, outputNames(t, p.cfg.OutputDir))
	assert.Contains(t, out.String(), "INSTRUCTIONS:")
	assert.Contains(t, out.String(), "Files in input folder: notes.txt")
	assert.NotContains(t, out.String(), "PROCESSING SUMMARY")
}

func TestRun_CreatesMissingDirectories(t *testing.T) {
	p, out := newTestProcessor(t)

	report, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Report{Elapsed: report.Elapsed}, report)
	assert.DirExists(t, p.cfg.InputDir)
	assert.DirExists(t, p.cfg.OutputDir)
	assert.Contains(t, out.String(), "Input folder is empty")
}

func TestRun_ProcessesEveryPDF(t *testing.T) {
	p, out := newTestProcessor(t)
	mkInput(t, p)
	pdftest.Write(t, p.cfg.InputDir, "report.pdf", pdftest.Lines("ANNUAL REPORT", longLine))
	writeFile(t, filepath.Join(p.cfg.InputDir, "fake.pdf"), "this is not a PDF")
	writeFile(t, filepath.Join(p.cfg.InputDir, "readme.txt"), "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(p.cfg.InputDir, "dir.pdf"), 0o755))

	report, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Found)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 0, report.Failed)
	assert.ElementsMatch(t, []string{"fake.json", "report.json"}, outputNames(t, p.cfg.OutputDir))

	good := readOutput(t, filepath.Join(p.cfg.OutputDir, "report.json"))
	assert.Equal(t, "report.pdf", good["filename"])
	assert.Equal(t, 1.0, good["total_pages"])
	assert.Equal(t, "ANNUAL REPORT\n"+longLine+"\n", good["full_text"])
	structure := good["content_structure"].(map[string]any)
	assert.Equal(t, []any{"ANNUAL REPORT"}, structure["headings"])
	assert.Equal(t, []any{longLine}, structure["paragraphs"])
	assert.Equal(t, model.MethodExtracted, good["metadata"].(map[string]any)["extraction_method"])

	fake := readOutput(t, filepath.Join(p.cfg.OutputDir, "fake.json"))
	assert.Equal(t, 1.0, fake["total_pages"])
	assert.Equal(t, "", fake["full_text"])
	assert.Equal(t, model.MethodFailed, fake["metadata"].(map[string]any)["extraction_method"])
	stats := fake["document_stats"].(map[string]any)
	assert.Equal(t, 0.0, stats["word_count"])

	assert.Contains(t, out.String(), "Found PDF files: fake.pdf, report.pdf")
	assert.Contains(t, out.String(), "Successfully processed: 2 files")
	assert.NotContains(t, out.String(), "Failed to process")
	assert.Contains(t, out.String(), "Generated files: fake.json, report.json")
}

func TestRun_OversizeFileCountsAsFailure(t *testing.T) {
	p, out := newTestProcessor(t)
	mkInput(t, p)
	pdftest.Write(t, p.cfg.InputDir, "big.pdf", pdftest.Lines("CONTENT"))
	writeFile(t, filepath.Join(p.cfg.InputDir, "small.pdf"), "x")
	p.cfg.MaxFileSizeBytes = 16

	report, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{"small.json"}, outputNames(t, p.cfg.OutputDir))
	assert.Contains(t, out.String(), "Failed to process: 1 files")
}

func TestRun_PanicInOneFileDoesNotStopTheRun(t *testing.T) {
	p, _ := newTestProcessor(t)
	mkInput(t, p)
	pdftest.Write(t, p.cfg.InputDir, "a.pdf", pdftest.Lines("FIRST"))
	pdftest.Write(t, p.cfg.InputDir, "b.pdf", pdftest.Lines("SECOND"))
	p.extractor = panicExtractor{name: "a.pdf", next: p.extractor}

	report, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, []string{"b.json"}, outputNames(t, p.cfg.OutputDir))
}

func TestRun_IsIdempotent(t *testing.T) {
	p, _ := newTestProcessor(t)
	mkInput(t, p)
	pdftest.Write(t, p.cfg.InputDir, "doc.pdf", pdftest.Lines("TITLE", longLine))

	stable := func() map[string]any {
		m := readOutput(t, filepath.Join(p.cfg.OutputDir, "doc.json"))
		delete(m, "processing_time")
		delete(m, "metadata")
		return m
	}

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	first := stable()

	_, err = p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, stable())
	assert.Equal(t, []string{"doc.json"}, outputNames(t, p.cfg.OutputDir))
}

func TestRun_CancelledBeforeFirstFile(t *testing.T) {
	p, _ := newTestProcessor(t)
	mkInput(t, p)
	pdftest.Write(t, p.cfg.InputDir, "doc.pdf", pdftest.Lines("TITLE"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := p.Run(ctx)

	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, 1, report.Found)
	assert.Equal(t, 0, report.Successful+report.Failed)
	assert.Empty(t, outputNames(t, p.cfg.OutputDir))
}

func TestRun_ExportsTablesToXLSX(t *testing.T) {
	p, _ := newTestProcessor(t)
	mkInput(t, p)
	p.cfg.ExportTables = true
	pdftest.Write(t, p.cfg.InputDir, "inventory.pdf", pdftest.Lines("INVENTORY").Table(
		[]string{"Item", "Qty"},
		[]string{"Apple", "3"},
	))
	pdftest.Write(t, p.cfg.InputDir, "plain.pdf", pdftest.Lines("NO TABLES HERE"))

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"inventory.json", "inventory_tables.xlsx", "plain.json"},
		outputNames(t, p.cfg.OutputDir))

	f, err := excelize.OpenFile(filepath.Join(p.cfg.OutputDir, "inventory_tables.xlsx"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Table 1"}, f.GetSheetList())
	rows, err := f.GetRows("Table 1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Item", "Qty"}, {"Apple", "3"}}, rows)
}

func TestWriteTables_OneSheetPerTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.xlsx")
	tables := []model.Table{
		{{"a", "b"}, {"1", "2"}},
		{{"x", "y", "z"}},
	}

	require.NoError(t, writeTables(path, tables))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Table 1", "Table 2"}, f.GetSheetList())
	rows, err := f.GetRows("Table 2")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "y", "z"}}, rows)
}

func TestSummarize_WritesNothing(t *testing.T) {
	p, _ := newTestProcessor(t)
	path := pdftest.Write(t, t.TempDir(), "doc.pdf", pdftest.Lines("TITLE"))

	out, err := p.Summarize(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "doc.pdf", out.Filename)
	assert.GreaterOrEqual(t, out.ProcessingTime, 0.0)
	assert.Equal(t, []string{"TITLE"}, out.ContentStructure.Headings)
	assert.NoDirExists(t, p.cfg.OutputDir)
}

func TestSummarize_Errors(t *testing.T) {
	p, _ := newTestProcessor(t)
	p.cfg.MaxFileSizeBytes = 4
	big := filepath.Join(t.TempDir(), "big.pdf")
	writeFile(t, big, "0123456789")

	_, err := p.Summarize(context.Background(), big)
	assert.True(t, errors.Is(err, ErrFileTooLarge))

	_, err = p.Summarize(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)

	_, err = p.Summarize(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestMarshalOutput_KeepsHTMLAndUnicode(t *testing.T) {
	doc := model.Document{
		TotalPages: 1,
		FullText:   "<Café & Co>\n",
		Pages:      []model.Page{{PageNumber: 1, Text: "<Café & Co>", Tables: []model.Table{}}},
	}
	s, err := MarshalOutput(model.Output{Filename: "c.pdf", Document: doc})

	require.NoError(t, err)
	assert.Contains(t, s, `"full_text": "<Café & Co>\n"`)
	assert.True(t, strings.HasPrefix(s, "{\n  \"filename\": \"c.pdf\""))
}

func TestRun_FollowsSymlinkedPDF(t *testing.T) {
	p, _ := newTestProcessor(t)
	mkInput(t, p)
	target := pdftest.Write(t, t.TempDir(), "source.pdf", pdftest.Lines("HELLO WORLD"))
	require.NoError(t, os.Symlink(target, filepath.Join(p.cfg.InputDir, "linked.pdf")))
	require.NoError(t, os.Symlink(t.TempDir(), filepath.Join(p.cfg.InputDir, "dirlink.pdf")))
	require.NoError(t, os.Symlink(filepath.Join(t.TempDir(), "gone.pdf"), filepath.Join(p.cfg.InputDir, "dangling.pdf")))

	report, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Found)
	assert.Equal(t, 1, report.Successful)
	out := readOutput(t, filepath.Join(p.cfg.OutputDir, "linked.json"))
	assert.Equal(t, "linked.pdf", out["filename"])
	assert.Equal(t, "HELLO WORLD\n", out["full_text"])
}

func TestRun_ExtensionOnlyNameKeepsFullStem(t *testing.T) {
	p, _ := newTestProcessor(t)
	mkInput(t, p)
	pdftest.Write(t, p.cfg.InputDir, ".pdf", pdftest.Lines("HIDDEN"))

	report, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, []string{".pdf.json"}, outputNames(t, p.cfg.OutputDir))
}

func TestOutputStem(t *testing.T) {
	for name, want := range map[string]string{
		"report.pdf":     "report",
		"archive.v2.pdf": "archive.v2",
		".pdf":           ".pdf",
	} {
		assert.Equal(t, want, outputStem(name), name)
	}
}
