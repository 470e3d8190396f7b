package importer

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/tallyapp/tally/internal/ledger"
	"github.com/tallyapp/tally/internal/validate"
)

const duplicateKind = "DuplicateImport"

// Service is the import side of the spreadsheet pipeline: parse, guard
// the batch size, validate row by row, then persist accepted rows as
// one ledger batch.
type Service struct {
	validator *validate.Validator
	txs       *ledger.Service
	maxRows   int
}

func NewService(validator *validate.Validator, txs *ledger.Service, maxRows int) *Service {
	return &Service{
		validator: validator,
		txs:       txs,
		maxRows:   maxRows,
	}
}

// Import runs one upload end to end and returns its report.
//
// Row-level validation failures land in the report and never abort the
// batch. Duplicates of already stored transactions are skipped with a
// warning entry, so re-uploading the same file is safe. Structural
// failures and an oversized batch return an error with zero rows
// persisted.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Report, error) {
	rows, err := parseCSV(r)
	if err != nil {
		return nil, err
	}

	if len(rows) > s.maxRows {
		return nil, ErrBatchTooLarge
	}

	report := &Report{
		BatchID:   uuid.New(),
		RowsTotal: len(rows),
	}

	records := make([]validate.RawRecord, len(rows))
	for i, row := range rows {
		records[i] = row.Record
	}

	results := s.validator.ValidateBatch(records)

	// Accepted params keep a back-pointer to their file line so the
	// duplicate report can name the right row.
	var (
		params []ledger.CreateParams
		lines  []int
	)

	for i, res := range results {
		if res.Rejection != nil {
			report.Rejected = append(report.Rejected, RowError{
				Row:    rows[i].Line,
				Kind:   string(res.Rejection.Kind),
				Reason: res.Rejection.Message,
			})

			continue
		}

		params = append(params, res.Params)
		lines = append(lines, rows[i].Line)
	}

	result, err := s.txs.ImportBatch(ctx, report.BatchID, params)
	if err != nil {
		return nil, err
	}

	for _, dup := range result.Skipped {
		report.Duplicates = append(report.Duplicates, RowError{
			Row:    lines[dup.Index],
			Kind:   duplicateKind,
			Reason: "identical transaction already in ledger (id " + dup.Existing.ID.String() + ")",
		})
	}

	report.RowsAccepted = len(result.Created)

	return report, nil
}
