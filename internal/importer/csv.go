package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// CSVParser reads CSV files whose header row names the layout columns.
// Columns may appear in any order; extra columns are ignored and missing
// ones are left blank.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a headed CSV and returns one record per data row.
func (p *CSVParser) Parse(r io.Reader, layout Layout) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	// source[i] is the CSV column feeding layout column i, or -1.
	source := make([]int, len(layout.Columns))
	matched := 0
	for i, c := range layout.Columns {
		source[i] = -1
		for j, h := range header {
			if strings.TrimSpace(h) == c.Name {
				source[i] = j
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return nil, fmt.Errorf("header %q has none of the columns %q", header, model.ColumnNames(layout.Columns))
	}

	var out []Record
	for _, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		row := make(Record, len(layout.Columns))
		for i, j := range source {
			if j >= 0 && j < len(rec) {
				row[i] = strings.TrimSpace(rec[j])
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
