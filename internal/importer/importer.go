// Package importer turns uploaded spreadsheet files into ledger
// transactions. Row-level problems never abort a batch; structural
// problems (unreadable file, missing required columns, oversized
// batch) abort it with nothing persisted.
package importer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrBatchTooLarge aborts imports whose row count exceeds the
// configured maximum. Nothing is persisted.
var ErrBatchTooLarge = errors.New("import batch exceeds maximum row count")

// StructuralError marks a file-level failure: the whole import aborts
// and zero rows are persisted.
type StructuralError struct {
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unresolvable import file: %s: %v", e.Reason, e.Err)
	}

	return "unresolvable import file: " + e.Reason
}

func (e *StructuralError) Unwrap() error { return e.Err }

// RowError is one rejected or skipped row in the import report. Row is
// the 1-based row number in the uploaded file, header included, so it
// matches what the user sees in their spreadsheet application.
type RowError struct {
	Row    int    `json:"row"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// Report is the outcome of one import call. It exists only in the
// response; accepted transactions are what gets persisted, tagged with
// BatchID.
type Report struct {
	BatchID      uuid.UUID  `json:"batch_id"`
	RowsTotal    int        `json:"rows_total"`
	RowsAccepted int        `json:"rows_accepted"`
	Rejected     []RowError `json:"rejected,omitempty"`
	Duplicates   []RowError `json:"duplicates,omitempty"`
}
