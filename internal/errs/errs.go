package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the dataset, batting and report packages.
// Callers match them with errors.Is.
var (
	// ErrInvalidInput indicates a bad file path, unsupported operator or mismatched argument types.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSchema indicates an expected column is absent.
	ErrSchema = errors.New("schema error")
	// ErrEmptyResult indicates a filter or aggregation produced no rows where at least one is required.
	ErrEmptyResult = errors.New("empty result")
	// ErrNoEligibleRecord indicates a leaderboard statistic has no qualifying value.
	ErrNoEligibleRecord = errors.New("no eligible record")
)

// ColumnError attaches column context to one of the sentinel errors.
type ColumnError struct {
	Column string
	Op     string
	Err    error
}

func (e *ColumnError) Error() string {
	if e == nil {
		return "column error"
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: column %q: %v", e.Op, e.Column, e.Err)
	}
	return fmt.Sprintf("column %q: %v", e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

// Column is shorthand for a *ColumnError.
func Column(op, column string, err error) error {
	return &ColumnError{Column: column, Op: op, Err: err}
}

// MissingColumn reports an absent column as a schema error.
func MissingColumn(op, column string) error {
	return &ColumnError{Column: column, Op: op, Err: ErrSchema}
}
