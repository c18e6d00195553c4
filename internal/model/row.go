package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Column is one header of a row buffer. Numeric columns hold whole amounts.
type Column struct {
	Name    string `yaml:"name"`
	Numeric bool   `yaml:"numeric,omitempty"`
}

// Cell is a single stored value.
type Cell struct {
	Text    string
	Amount  decimal.Decimal
	Numeric bool
}

// TextCell returns a text cell.
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// AmountCell returns a numeric cell.
func AmountCell(d decimal.Decimal) Cell {
	return Cell{Amount: d, Numeric: true}
}

// String renders the cell the way it appears in previews and reports.
func (c Cell) String() string {
	if c.Numeric {
		return c.Amount.String()
	}
	return c.Text
}

// Value returns the value to write into a spreadsheet cell.
func (c Cell) Value() any {
	if c.Numeric {
		return c.Amount.IntPart()
	}
	return c.Text
}

// Row is one data row, ordered like the buffer's columns.
type Row []Cell

// Strings renders every cell of the row.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.String()
	}
	return out
}

// Header names of the default entry form.
const (
	HeaderDepartment = "부서"
	HeaderItem       = "항목"
	HeaderDeposit    = "입금"
	HeaderWithdrawal = "출금"
)

// DefaultColumns returns the department / item / deposit / withdrawal layout.
func DefaultColumns() []Column {
	return []Column{
		{Name: HeaderDepartment},
		{Name: HeaderItem},
		{Name: HeaderDeposit, Numeric: true},
		{Name: HeaderWithdrawal, Numeric: true},
	}
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// IndexOf returns the position of the column named name, or -1.
// Matching ignores surrounding whitespace.
func IndexOf(cols []Column, name string) int {
	name = strings.TrimSpace(name)
	for i, c := range cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}
