// Package export serializes ledger contents back to spreadsheet form.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/tallyapp/tally/internal/ledger"
)

// Columns is the fixed export column order. Import understands the
// same set, so an exported file round-trips.
var Columns = []string{"date", "amount", "category", "description", "source"}

type Service struct {
	txs *ledger.Service
}

func NewService(txs *ledger.Service) *Service {
	return &Service{txs: txs}
}

// Export serializes the transactions matching the filter as CSV bytes.
// Output is deterministic: same transaction set, same bytes. No
// generation timestamp is embedded in the data rows.
func (s *Service) Export(ctx context.Context, filter ledger.Filter) ([]byte, error) {
	txs, err := s.txs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return Marshal(txs)
}

// Marshal renders a transaction set in the fixed column order. Amounts
// are signed two-decimal strings, dates ISO.
func Marshal(txs []*ledger.Transaction) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		row := []string{
			tx.Date.Format(time.DateOnly),
			ledger.FormatAmount(tx.Amount),
			tx.Category,
			tx.Description,
			tx.Source,
		}

		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return buf.Bytes(), nil
}
