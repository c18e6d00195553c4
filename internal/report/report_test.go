package report

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"baliance.com/gooxml/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/workbook"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }

func testGenerator() *Generator {
	g := NewGenerator()
	g.Now = fixedNow
	return g
}

func saveSample(t *testing.T, dir string, rows int) string {
	t.Helper()
	b, err := ledger.NewBuffer(model.DefaultColumns())
	require.NoError(t, err)
	depts := []string{"영업부", "총무부", "개발부", "인사부"}
	for i := 0; i < rows; i++ {
		require.NoError(t, b.Add(depts[i%len(depts)], "항목", "100", ""))
	}
	path := filepath.Join(dir, "entries.xlsx")
	require.NoError(t, workbook.Save(path, b, ""))
	return path
}

// readDocx parses a rendered report.
func readDocx(t *testing.T, data []byte) *document.Document {
	t.Helper()
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return doc
}

func paragraphText(p document.Paragraph) string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// bodyText returns the text of the paragraphs outside tables.
func bodyText(doc *document.Document) []string {
	var out []string
	for _, p := range doc.Paragraphs() {
		out = append(out, paragraphText(p))
	}
	return out
}

// tableText returns the single table of a report as a text matrix.
func tableText(t *testing.T, doc *document.Document) [][]string {
	t.Helper()
	tables := doc.Tables()
	require.Len(t, tables, 1)
	var out [][]string
	for _, row := range tables[0].Rows() {
		var cells []string
		for _, c := range row.Cells() {
			var sb strings.Builder
			for _, p := range c.Paragraphs() {
				sb.WriteString(paragraphText(p))
			}
			cells = append(cells, sb.String())
		}
		out = append(out, cells)
	}
	return out
}

func TestBuild(t *testing.T) {
	sheet := &workbook.Sheet{
		Headers: []string{"부서", "항목", "입금", "출금"},
		Rows:    [][]string{{"영업부", "소모품", "1000", "0"}},
	}
	doc, err := testGenerator().Build("entries.xlsx", sheet)
	require.NoError(t, err)

	assert.Equal(t, "Report Generated from: entries.xlsx", doc.Title)
	assert.Equal(t, "Report Date: 2025-03-14", doc.Date)
	assert.Equal(t, "Data Summary Table", doc.Heading)
	assert.Equal(t, sheet.Headers, doc.Headers)
	assert.Equal(t, sheet.Rows, doc.Rows)
	assert.Empty(t, doc.Totals)

	sheet.Rows[0][0] = "changed"
	assert.Equal(t, "영업부", doc.Rows[0][0], "document keeps its own copy")
}

func TestBuild_NoData(t *testing.T) {
	_, err := testGenerator().Build("x.xlsx", &workbook.Sheet{Headers: []string{"a"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBuild_Totals(t *testing.T) {
	g := testGenerator()
	g.Totals = true
	g.Numeric = []string{"입금", "출금", "missing"}
	sheet := &workbook.Sheet{
		Headers: []string{"부서", "항목", "입금", "출금"},
		Rows:    [][]string{{"a", "b", "100", "0"}, {"c", "d", "", "25"}},
	}
	doc, err := g.Build("x.xlsx", sheet)
	require.NoError(t, err)
	require.Len(t, doc.Totals, 2)
	assert.Equal(t, "100", doc.Totals[0].Sum.String())
	assert.Equal(t, "25", doc.Totals[1].Sum.String())
}

func TestBuild_DateFormat(t *testing.T) {
	g := testGenerator()
	g.DateFormat = "02/01/2006"
	doc, err := g.Build("x.xlsx", &workbook.Sheet{Headers: []string{"a"}, Rows: [][]string{{"1"}}})
	require.NoError(t, err)
	assert.Equal(t, "Report Date: 14/03/2025", doc.Date)
}

func TestRender_TableShape(t *testing.T) {
	for _, n := range []int{1, 3, 7} {
		dir := t.TempDir()
		src := saveSample(t, dir, n)

		out, err := testGenerator().Generate(src, "")
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		rows := tableText(t, readDocx(t, data))

		require.Len(t, rows, n+1, "header plus %d data rows", n)
		for i, r := range rows {
			assert.Len(t, r, 4, "row %d has four columns", i)
		}
		assert.Equal(t, []string{"부서", "항목", "입금", "출금"}, rows[0])
	}
}

func TestRender_Content(t *testing.T) {
	dir := t.TempDir()
	src := saveSample(t, dir, 2)

	out, err := testGenerator().Generate(src, "")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := readDocx(t, data)

	body := bodyText(doc)
	assert.Contains(t, body, "Report Generated from: entries.xlsx")
	assert.Contains(t, body, "Report Date: 2025-03-14")
	assert.Contains(t, body, "Data Summary Table")

	rows := tableText(t, doc)
	assert.Equal(t, []string{"영업부", "항목", "100", "0"}, rows[1])
	assert.Equal(t, []string{"총무부", "항목", "100", "0"}, rows[2])
}

func TestRender_TotalsOutsideTable(t *testing.T) {
	g := testGenerator()
	g.Totals = true
	g.Numeric = []string{"입금"}
	doc, err := g.Build("x.xlsx", &workbook.Sheet{
		Headers: []string{"부서", "입금"},
		Rows:    [][]string{{"a", "5"}, {"b", "7"}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(doc, &buf))
	rendered := readDocx(t, buf.Bytes())

	assert.Contains(t, bodyText(rendered), "Total 입금: 12")
	assert.Len(t, tableText(t, rendered), 3)
}

func TestGenerate_RenderFailureRemovesFile(t *testing.T) {
	orig := render
	t.Cleanup(func() { render = orig })
	render = func(doc *Document, w io.Writer) error {
		if _, err := w.Write([]byte("PK partial")); err != nil {
			return err
		}
		return errors.New("disk full")
	}

	dir := t.TempDir()
	src := saveSample(t, dir, 1)

	_, err := testGenerator().Generate(src, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	_, statErr := os.Stat(filepath.Join(dir, "entries_Report.docx"))
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "partial report removed")
}

func TestGenerate_MissingSource(t *testing.T) {
	_, err := testGenerator().Generate(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestGenerate_HeadersOnly(t *testing.T) {
	dir := t.TempDir()
	b, err := ledger.NewBuffer(model.DefaultColumns())
	require.NoError(t, err)
	src := filepath.Join(dir, "empty.xlsx")
	require.NoError(t, workbook.Save(src, b, ""))

	_, err = testGenerator().Generate(src, "")
	assert.ErrorIs(t, err, ErrNoData)

	_, statErr := os.Stat(filepath.Join(dir, "empty_Report.docx"))
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "no report written")
}

func TestGenerate_ExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	src := saveSample(t, dir, 1)
	out := filepath.Join(dir, "reports", "march.docx")

	got, err := testGenerator().Generate(src, out)
	require.NoError(t, err)
	assert.Equal(t, out, got)
	_, err = os.Stat(out)
	require.NoError(t, err)
}

func TestOutputPath(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, filepath.Join("data", "entries_Report.docx"), g.OutputPath(filepath.Join("data", "entries.xlsx")))
	assert.Equal(t, "book_Report.docx", g.OutputPath("book.XLSX"))
	assert.Equal(t, "notes_Report.docx", g.OutputPath("notes"))

	g.Suffix = ".report.docx"
	assert.Equal(t, "entries.report.docx", g.OutputPath("entries.xlsx"))
}
