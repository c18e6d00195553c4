package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

var (
	// ErrColumnCount is returned when a row does not have one value per column.
	ErrColumnCount = errors.New("data does not match the expected number of columns")
	// ErrRowRange is returned for a user row index outside 1..Len().
	ErrRowRange = errors.New("row index out of range")
	// ErrUnknownColumn is returned when a column name is not a header.
	ErrUnknownColumn = errors.New("column not found")
	// ErrNotWhole is returned when a numeric column receives anything but a whole number.
	ErrNotWhole = errors.New("must be a valid whole number")
	// ErrAmountRange is returned for amounts with more than MaxAmountDigits digits.
	ErrAmountRange = errors.New("must have at most 15 digits")
	// ErrIncomplete is returned by CheckComplete.
	ErrIncomplete = errors.New("all fields must be filled")
)

// MaxAmountDigits is the largest number of significant digits a
// spreadsheet stores exactly.
const MaxAmountDigits = 15

// ValidationError describes one rejected value.
type ValidationError struct {
	Column string
	Row    int // user-facing row, 0 when the row is not yet stored
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.Row > 0 {
		fmt.Fprintf(&sb, "row %d: ", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&sb, "'%s' ", e.Column)
	}
	if e.Reason != "" {
		sb.WriteString(e.Reason)
	} else if e.Err != nil {
		sb.WriteString(e.Err.Error())
	}
	return strings.TrimSpace(sb.String())
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ParseAmount coerces text entered for a numeric column.
// Blank text is zero. Only an optional sign followed by digits is accepted.
func ParseAmount(column, text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, nil
	}
	if !isWhole(s) {
		return decimal.Zero, &ValidationError{Column: column, Reason: ErrNotWhole.Error(), Err: ErrNotWhole}
	}
	if significantDigits(s) > MaxAmountDigits {
		return decimal.Zero, &ValidationError{Column: column, Reason: ErrAmountRange.Error(), Err: ErrAmountRange}
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return decimal.Zero, &ValidationError{Column: column, Reason: ErrNotWhole.Error(), Err: ErrNotWhole}
	}
	return d, nil
}

func isWhole(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// significantDigits counts the digits of a whole number without its sign
// or leading zeros.
func significantDigits(s string) int {
	s = strings.TrimLeft(s, "+-")
	return len(strings.TrimLeft(s, "0"))
}

// CheckComplete applies the entry form rule: every text column must be
// filled and at least one numeric column must be filled.
func CheckComplete(columns []model.Column, values []string) error {
	if len(values) != len(columns) {
		return ErrColumnCount
	}
	hasNumeric := false
	anyAmount := false
	for i, c := range columns {
		filled := strings.TrimSpace(values[i]) != ""
		if c.Numeric {
			hasNumeric = true
			anyAmount = anyAmount || filled
			continue
		}
		if !filled {
			return &ValidationError{Column: c.Name, Reason: "is required", Err: ErrIncomplete}
		}
	}
	if hasNumeric && !anyAmount {
		return &ValidationError{Reason: "enter at least one amount", Err: ErrIncomplete}
	}
	return nil
}

func validateColumns(columns []model.Column) error {
	if len(columns) == 0 {
		return errors.New("at least one column is required")
	}
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("column %d has no name", i+1)
		}
		if seen[name] {
			return fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = true
	}
	return nil
}
