// Package apperrors provides domain-specific error types and sentinel
// errors shared across the bot. Use errors.Is/errors.As to inspect them.
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
var (
	// ErrSheetMalformed indicates a spreadsheet sheet is structurally
	// unusable (missing header row or data rows).
	ErrSheetMalformed = errors.New("sheet malformed")

	// ErrCacheCorrupt indicates a persisted cache blob could not be
	// read or decoded.
	ErrCacheCorrupt = errors.New("cache corrupt")

	// ErrModelUnavailable indicates a classifier model is not loaded.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrNotConnected indicates the spreadsheet transport has no
	// authenticated session.
	ErrNotConnected = errors.New("not connected")
)

// SheetError reports a failure scoped to one spreadsheet sheet.
// Ingestion drops the sheet and carries on with the rest.
type SheetError struct {
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// NewSheetError creates a new sheet-scoped error.
func NewSheetError(sheet string, err error) *SheetError {
	return &SheetError{Sheet: sheet, Err: err}
}

// TransportError reports a spreadsheet transport failure with context.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sheets transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new transport error.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}
