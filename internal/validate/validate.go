// Package validate normalizes raw transaction records before they
// reach the ledger. Validation is pure: no store access, no mutation.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/tallyapp/tally/internal/category"
	"github.com/tallyapp/tally/internal/ledger"
)

// RejectionKind is the machine-readable class of a validation failure.
type RejectionKind string

const (
	InvalidDate        RejectionKind = "InvalidDate"
	InvalidAmount      RejectionKind = "InvalidAmount"
	DescriptionTooLong RejectionKind = "DescriptionTooLong"
)

// Rejection explains why a record was refused. Message is the
// human-readable reason; Kind is stable and safe to switch on.
type Rejection struct {
	Kind    RejectionKind
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Kind, r.Message)
}

// RawRecord is one unvalidated row, as parsed from a spreadsheet or an
// API payload. All fields are still strings.
type RawRecord struct {
	Date        string
	Amount      string
	Category    string
	Description string
}

// Validator turns raw records into ledger create params. Category
// labels resolve through the taxonomy and never cause rejection.
type Validator struct {
	resolver       *category.Resolver
	maxDescription int
}

func New(resolver *category.Resolver, maxDescription int) *Validator {
	return &Validator{resolver: resolver, maxDescription: maxDescription}
}

// dateLayouts are tried in order. ISO first; the day-first forms show
// up in regional bank exports.
var dateLayouts = []string{time.DateOnly, "02-01-2006", "02/01/2006"}

// Validate checks a single record. Checks run in a fixed order and the
// first failure wins: date, amount, category (never fails, falls back
// to Uncategorized), description length. Description length is a hard
// reject rather than a silent truncation.
func (v *Validator) Validate(rec RawRecord) (ledger.CreateParams, *Rejection) {
	date, ok := parseDate(rec.Date)
	if !ok {
		return ledger.CreateParams{}, &Rejection{
			Kind:    InvalidDate,
			Message: fmt.Sprintf("%q is not a calendar date", rec.Date),
		}
	}

	amount, err := ledger.ParseAmount(rec.Amount)
	if err != nil {
		return ledger.CreateParams{}, &Rejection{
			Kind:    InvalidAmount,
			Message: fmt.Sprintf("%q: %v", rec.Amount, err),
		}
	}

	cat := v.resolver.Resolve(rec.Category)

	desc := strings.TrimSpace(rec.Description)
	if len(desc) > v.maxDescription {
		return ledger.CreateParams{}, &Rejection{
			Kind:    DescriptionTooLong,
			Message: fmt.Sprintf("description is %d characters, limit is %d", len(desc), v.maxDescription),
		}
	}

	return ledger.CreateParams{
		Date:        date,
		Amount:      amount,
		Category:    cat.Name,
		Description: desc,
	}, nil
}

// RowResult tags one batch row with either its accepted params or its
// rejection, so partial-success imports can report both sides.
type RowResult struct {
	Params    ledger.CreateParams
	Rejection *Rejection
}

// ValidateBatch validates every row and never stops early, so a batch
// import can report all failures at once. Results are positional:
// results[i] corresponds to rows[i].
func (v *Validator) ValidateBatch(rows []RawRecord) []RowResult {
	results := make([]RowResult, len(rows))

	for i, rec := range rows {
		params, rej := v.Validate(rec)
		results[i] = RowResult{Params: params, Rejection: rej}
	}

	return results
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}
