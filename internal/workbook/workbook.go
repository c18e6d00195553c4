// Package workbook persists a row buffer as an .xlsx spreadsheet and reads
// saved spreadsheets back.
package workbook

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/rowidx"
)

// DefaultSheet is the sheet name used for new workbooks.
const DefaultSheet = "Data Entry"

// Sheet is the text content of one spreadsheet sheet.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string // padded to len(Headers)
}

// Build creates a workbook holding the buffer: headers on row 1, data from
// row 2, numeric cells as whole numbers.
func Build(b *ledger.Buffer, sheet string) (*excelize.File, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	if err := writeRow(f, sheet, rowidx.HeaderRow, stringsToAny(b.Headers())); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing headers: %w", err)
	}

	for i, row := range b.Rows() {
		values := make([]any, len(row))
		for j, c := range row {
			values[j] = c.Value()
		}
		if err := writeRow(f, sheet, rowidx.SheetRow(i+1), values); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, sheetRow int, values []any) error {
	cell, err := rowidx.CellName(0, sheetRow)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// Save writes the buffer to path, creating parent directories.
func Save(path string, b *ledger.Buffer, sheet string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}

	f, err := Build(b, sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

// Write writes the buffer as an .xlsx stream.
func Write(w io.Writer, b *ledger.Buffer, sheet string) error {
	f, err := Build(b, sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Read returns the active sheet of the workbook at path.
func Read(path string) (*Sheet, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found: %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	return readActive(f)
}

// ReadFrom parses an .xlsx stream and returns its active sheet.
func ReadFrom(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	return readActive(f)
}

func readActive(f *excelize.File) (*Sheet, error) {
	name := f.GetSheetName(f.GetActiveSheetIndex())
	// Raw values keep large amounts out of scientific notation.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", name, err)
	}

	sheet := &Sheet{Name: name}
	if len(rows) == 0 {
		return sheet, nil
	}

	sheet.Headers = trimTrailingEmpty(rows[0])
	width := len(sheet.Headers)
	// Interior blank rows are kept so user row numbers stay aligned with
	// sheet rows. GetRows already omits trailing ones.
	for _, r := range rows[1:] {
		sheet.Rows = append(sheet.Rows, pad(r, width))
	}
	return sheet, nil
}

func trimTrailingEmpty(r []string) []string {
	n := len(r)
	for n > 0 && r[n-1] == "" {
		n--
	}
	return r[:n]
}

// pad returns r resized to width. Cells beyond the header width are dropped.
func pad(r []string, width int) []string {
	out := make([]string, width)
	copy(out, r)
	return out
}
