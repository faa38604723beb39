package domain

import (
	"errors"
	"fmt"
)

// Validation and lookup failures surfaced before any SQL runs.
var (
	ErrUnknownTable      = errors.New("unknown table")
	ErrInvalidSortColumn = errors.New("invalid sort column")
	ErrInvalidSortOrder  = errors.New("invalid sort order")
	ErrMissingPrimaryKey = errors.New("table has no primary key")
	ErrRecordNotFound    = errors.New("record not found")
	ErrEmptyRecord       = errors.New("record has no fields")
)

// ExecError wraps a driver/database failure during statement execution.
// The in-flight transaction has already been rolled back when one of
// these is returned.
type ExecError struct {
	Op    string // "select" | "insert" | "update" | "delete"
	Table string
	Err   error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Table, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
