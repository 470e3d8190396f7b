package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by store lookups for unknown transaction ids.
var ErrNotFound = errors.New("transaction not found")

// SourceManual marks transactions entered one at a time through the API.
const SourceManual = "manual"

// ImportSource builds the provenance tag for transactions created by a
// spreadsheet import batch.
func ImportSource(batchID uuid.UUID) string {
	return "import:" + batchID.String()
}

// Transaction is the atomic ledger record.
//
// Amount is signed cents: positive for income, negative for expense.
// The sign is the single source of truth for the income/expense split;
// there is no separate type field to contradict it. Amount is never
// zero for a stored transaction.
type Transaction struct {
	ID          uuid.UUID
	Date        time.Time // calendar date, midnight UTC
	Amount      int64     // signed cents
	Category    string    // resolved taxonomy name at write time
	Description string
	Source      string // "manual" or "import:<batch_id>"
	CreatedAt   time.Time
}

// FormatAmount renders signed cents as a fixed two-decimal string,
// e.g. -4250 -> "-42.50". Used for export and API presentation.
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ParseAmount parses a decimal amount string into signed cents.
// Rejects values that are empty, unparseable, zero, or carry more than
// two fractional digits. A comma decimal separator is accepted since
// regional spreadsheet exports commonly use it.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty amount")
	}

	// Tolerate "12,34" but not "1.234,56" style thousand separators.
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount: %w", err)
	}

	if d.IsZero() {
		return 0, errors.New("amount must be nonzero")
	}

	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, errors.New("amount has more than two fractional digits")
	}

	return d.Mul(decimal.NewFromInt(100)).IntPart(), nil
}
