// Package report turns a saved spreadsheet into a .docx summary document.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/workbook"
)

// ErrNoData is returned for a spreadsheet without data rows.
var ErrNoData = errors.New("the spreadsheet is empty or only contains headers")

const (
	// DefaultSuffix replaces the source extension in the output file name.
	DefaultSuffix = "_Report.docx"
	// DefaultDateFormat renders the report date line.
	DefaultDateFormat = "2006-01-02"

	titlePrefix  = "Report Generated from: "
	datePrefix   = "Report Date: "
	tableHeading = "Data Summary Table"
)

// Document is the content of a report before it is rendered.
type Document struct {
	Title   string
	Date    string
	Heading string
	Headers []string
	Rows    [][]string
	Totals  []ledger.Total
}

// Generator builds reports from spreadsheets.
type Generator struct {
	Now        func() time.Time
	Suffix     string
	DateFormat string
	// Totals appends a paragraph with the sum of each numeric column.
	Totals bool
	// Numeric names the columns summed when Totals is set.
	Numeric []string
}

// NewGenerator returns a Generator with default settings.
func NewGenerator() *Generator {
	return &Generator{
		Now:        time.Now,
		Suffix:     DefaultSuffix,
		DateFormat: DefaultDateFormat,
	}
}

// OutputPath returns the default report path for a source spreadsheet: the
// same directory, the extension replaced by the suffix.
func (g *Generator) OutputPath(src string) string {
	suffix := g.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(src), base+suffix)
}

// Build lays out the report for sheet. sourceName is shown in the title.
func (g *Generator) Build(sourceName string, sheet *workbook.Sheet) (*Document, error) {
	if len(sheet.Rows) == 0 {
		return nil, ErrNoData
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	layout := g.DateFormat
	if layout == "" {
		layout = DefaultDateFormat
	}

	doc := &Document{
		Title:   titlePrefix + sourceName,
		Date:    datePrefix + now().Format(layout),
		Heading: tableHeading,
		Headers: append([]string(nil), sheet.Headers...),
		Rows:    make([][]string, len(sheet.Rows)),
	}
	for i, r := range sheet.Rows {
		doc.Rows[i] = append([]string(nil), r...)
	}

	if g.Totals {
		totals, err := sumColumns(sheet, g.Numeric)
		if err != nil {
			return nil, err
		}
		doc.Totals = totals
	}
	return doc, nil
}

func sumColumns(sheet *workbook.Sheet, names []string) ([]ledger.Total, error) {
	var totals []ledger.Total
	for _, name := range names {
		col := -1
		for i, h := range sheet.Headers {
			if h == name {
				col = i
				break
			}
		}
		if col < 0 {
			continue
		}
		sum := decimal.Zero
		for i, r := range sheet.Rows {
			v, err := ledger.ParseAmount(name, r[col])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			sum = sum.Add(v)
		}
		totals = append(totals, ledger.Total{Column: name, Sum: sum})
	}
	return totals, nil
}

// Generate reads the spreadsheet at src and writes its report to out, or
// to OutputPath(src) when out is empty. It returns the written path.
func (g *Generator) Generate(src, out string) (string, error) {
	sheet, err := workbook.Read(src)
	if err != nil {
		return "", err
	}

	doc, err := g.Build(filepath.Base(src), sheet)
	if err != nil {
		return "", err
	}

	if out == "" {
		out = g.OutputPath(src)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("creating report %s: %w", out, err)
	}
	if err := render(doc, f); err != nil {
		f.Close()
		os.Remove(out)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(out)
		return "", fmt.Errorf("closing report %s: %w", out, err)
	}
	return out, nil
}

// render is replaced in tests.
var render = Render

// Render writes doc as a .docx stream.
func Render(doc *Document, w io.Writer) error {
	d := newDocx()
	d.title(doc.Title)
	d.paragraph(doc.Date)
	d.heading(doc.Heading)
	d.table(doc.Headers, doc.Rows)
	for _, t := range doc.Totals {
		d.paragraph(fmt.Sprintf("Total %s: %s", t.Column, t.Sum.String()))
	}
	if err := d.save(w); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
