package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports. The description
// becomes the item; credits fill the deposit column and debits the
// withdrawal column, rounded to whole units.
type ChaseParser struct{}

const (
	chaseNumFields = 7
	chaseColDesc   = 2
	chaseColAmount = 3
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns records for layout.
func (p *ChaseParser) Parse(r io.Reader, layout Layout) ([]Record, error) {
	roles, err := bankRoles(layout.Columns)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var out []Record
	for i, rec := range records[1:] {
		row, err := roles.record(len(layout.Columns), layout.Department, rec[chaseColDesc], rec[chaseColAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// roles locates the columns a bank row maps onto: the first two text
// columns (department, item) and the first two numeric columns
// (deposit, withdrawal).
type roles struct {
	department, item, deposit, withdrawal int
}

func bankRoles(cols []model.Column) (roles, error) {
	var text, numeric []int
	for i, c := range cols {
		if c.Numeric {
			numeric = append(numeric, i)
		} else {
			text = append(text, i)
		}
	}
	if len(text) < 2 || len(numeric) < 2 {
		return roles{}, errors.New("bank imports need two text columns and two numeric columns")
	}
	return roles{department: text[0], item: text[1], deposit: numeric[0], withdrawal: numeric[1]}, nil
}

func (r roles) record(width int, department, desc, amountText string) (Record, error) {
	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", amountText, err)
	}
	whole := amount.Abs().Round(0)

	row := make(Record, width)
	row[r.department] = department
	row[r.item] = desc
	if amount.IsNegative() {
		row[r.withdrawal] = whole.String()
	} else {
		row[r.deposit] = whole.String()
	}
	return row, nil
}
