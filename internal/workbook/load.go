package workbook

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/rowidx"
)

// HeaderMismatchError is returned by Load when a saved sheet's headers do
// not match the expected columns.
type HeaderMismatchError struct {
	Want []string
	Got  []string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("headers %q do not match expected %q", e.Got, e.Want)
}

// Load reopens a saved workbook as a row buffer so it can be edited further.
func Load(path string, columns []model.Column) (*ledger.Buffer, error) {
	sheet, err := Read(path)
	if err != nil {
		return nil, err
	}
	b, err := ToBuffer(sheet, columns)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return b, nil
}

// ToBuffer validates sheet against columns and copies its rows into a new buffer.
func ToBuffer(sheet *Sheet, columns []model.Column) (*ledger.Buffer, error) {
	want := model.ColumnNames(columns)
	if !sameHeaders(want, sheet.Headers) {
		return nil, &HeaderMismatchError{Want: want, Got: sheet.Headers}
	}

	b, err := ledger.NewBuffer(columns)
	if err != nil {
		return nil, err
	}
	for i, r := range sheet.Rows {
		if err := b.Add(r...); err != nil {
			return nil, fmt.Errorf("sheet row %d: %w", rowidx.SheetRow(i+1), err)
		}
	}
	return b, nil
}

func sameHeaders(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}
