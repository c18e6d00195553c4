// Package rowidx translates between the 1-based row numbers shown to the
// user and the spreadsheet rows they are stored in.
package rowidx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	// HeaderRow is the spreadsheet row holding the column headers.
	HeaderRow = 1
	// FirstDataRow is the spreadsheet row of user row 1.
	FirstDataRow = 2
)

// SheetRow returns the spreadsheet row for a user row ("1" -> 2).
func SheetRow(userRow int) int {
	return userRow + HeaderRow
}

// UserRow returns the user row for a spreadsheet row (2 -> 1).
func UserRow(sheetRow int) int {
	return sheetRow - HeaderRow
}

// Parse reads a user row reference such as "3" or "#3".
func Parse(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid row %q: %w", s, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid row %q: must be 1 or greater", s)
	}
	return n, nil
}

// CellName returns the A1-style name of a 0-based column on a spreadsheet row.
func CellName(column, sheetRow int) (string, error) {
	name, err := excelize.CoordinatesToCellName(column+1, sheetRow)
	if err != nil {
		return "", fmt.Errorf("cell name for column %d row %d: %w", column, sheetRow, err)
	}
	return name, nil
}
