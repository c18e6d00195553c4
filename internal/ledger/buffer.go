package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/rowidx"
)

// Buffer is the in-memory row buffer behind the entry form. It mirrors
// spreadsheet rows 2..N; headers are fixed at construction.
type Buffer struct {
	columns []model.Column
	rows    []model.Row
}

// NewBuffer creates an empty buffer with the given headers.
func NewBuffer(columns []model.Column) (*Buffer, error) {
	if err := validateColumns(columns); err != nil {
		return nil, fmt.Errorf("invalid columns: %w", err)
	}
	cols := make([]model.Column, len(columns))
	copy(cols, columns)
	return &Buffer{columns: cols}, nil
}

// Columns returns a copy of the headers.
func (b *Buffer) Columns() []model.Column {
	out := make([]model.Column, len(b.columns))
	copy(out, b.columns)
	return out
}

// Headers returns the header names.
func (b *Buffer) Headers() []string {
	return model.ColumnNames(b.columns)
}

// Len returns the number of data rows.
func (b *Buffer) Len() int {
	return len(b.rows)
}

// Add validates values and appends them as a new row. Nothing is stored
// unless every value is valid.
func (b *Buffer) Add(values ...string) error {
	row, err := b.coerce(values)
	if err != nil {
		return err
	}
	b.rows = append(b.rows, row)
	return nil
}

func (b *Buffer) coerce(values []string) (model.Row, error) {
	if len(values) != len(b.columns) {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("%s (got %d values for %d columns)", ErrColumnCount, len(values), len(b.columns)),
			Err:    ErrColumnCount,
		}
	}
	row := make(model.Row, len(values))
	for i, c := range b.columns {
		cell, err := coerceCell(c, values[i])
		if err != nil {
			return nil, err
		}
		row[i] = cell
	}
	return row, nil
}

func coerceCell(c model.Column, value string) (model.Cell, error) {
	if !c.Numeric {
		return model.TextCell(value), nil
	}
	amount, err := ParseAmount(c.Name, value)
	if err != nil {
		return model.Cell{}, err
	}
	return model.AmountCell(amount), nil
}

// Update replaces a single cell addressed by its 1-based user row and
// column name.
func (b *Buffer) Update(userRow int, column, value string) error {
	col := model.IndexOf(b.columns, column)
	if col < 0 {
		return &ValidationError{Column: column, Reason: ErrUnknownColumn.Error(), Err: ErrUnknownColumn}
	}
	idx, err := b.index(userRow)
	if err != nil {
		return err
	}
	cell, err := coerceCell(b.columns[col], value)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Row = userRow
		}
		return err
	}
	b.rows[idx][col] = cell
	return nil
}

// Row returns a copy of the row at the 1-based user index.
func (b *Buffer) Row(userRow int) (model.Row, error) {
	idx, err := b.index(userRow)
	if err != nil {
		return nil, err
	}
	out := make(model.Row, len(b.rows[idx]))
	copy(out, b.rows[idx])
	return out, nil
}

// index maps a user row to a slice index via the spreadsheet row, which
// is the position the row occupies on disk.
func (b *Buffer) index(userRow int) (int, error) {
	sheetRow := rowidx.SheetRow(userRow)
	if sheetRow <= rowidx.HeaderRow || sheetRow > rowidx.SheetRow(len(b.rows)) {
		return 0, &ValidationError{
			Reason: fmt.Sprintf("row index %d is out of range (1..%d)", userRow, len(b.rows)),
			Err:    ErrRowRange,
		}
	}
	return sheetRow - rowidx.FirstDataRow, nil
}

// Rows returns a copy of all data rows in entry order.
func (b *Buffer) Rows() []model.Row {
	out := make([]model.Row, len(b.rows))
	for i, r := range b.rows {
		cp := make(model.Row, len(r))
		copy(cp, r)
		out[i] = cp
	}
	return out
}

// Records renders every row as text.
func (b *Buffer) Records() [][]string {
	out := make([][]string, len(b.rows))
	for i, r := range b.rows {
		out[i] = r.Strings()
	}
	return out
}

// Total is the sum of one numeric column.
type Total struct {
	Column string
	Sum    decimal.Decimal
}

// Totals sums every numeric column.
func (b *Buffer) Totals() []Total {
	var totals []Total
	for i, c := range b.columns {
		if !c.Numeric {
			continue
		}
		sum := decimal.Zero
		for _, r := range b.rows {
			sum = sum.Add(r[i].Amount)
		}
		totals = append(totals, Total{Column: c.Name, Sum: sum})
	}
	return totals
}
