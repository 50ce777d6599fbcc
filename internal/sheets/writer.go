// Package sheets performs the authenticated cell writes. The Google Sheets
// implementation is the primary target; a local workbook implementation
// covers offline use against a downloaded copy of the template.
package sheets

import (
	"context"
	"fmt"

	"charsync/internal/layout"
)

// CellWrite is one destination cell and the value to place in it
type CellWrite struct {
	Ref   layout.CellRef
	Value any
}

// Writer performs a batched write of cell values to the destination
// spreadsheet. The whole batch is issued in one call; a failure part-way
// through the remote write may leave the sheet partially updated, and the
// recovery story is re-running the program.
type Writer interface {
	Write(ctx context.Context, writes []CellWrite) error
}

// AuthError indicates invalid or expired credentials. It is never retried;
// the user has to redo the credential setup.
type AuthError struct {
	Err error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

// Unwrap returns the underlying cause
func (e *AuthError) Unwrap() error {
	return e.Err
}

// WriteError indicates the remote write failed for a non-credential reason
type WriteError struct {
	Err error
}

// Error implements the error interface
func (e *WriteError) Error() string {
	return fmt.Sprintf("spreadsheet write failed: %v", e.Err)
}

// Unwrap returns the underlying cause
func (e *WriteError) Unwrap() error {
	return e.Err
}
