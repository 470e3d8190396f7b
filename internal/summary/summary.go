// Package summary computes derived financial aggregates from a
// transaction set. Summaries are pure projections: nothing here is
// cached or persisted, every call recomputes from the input slice.
package summary

import (
	"fmt"
	"sort"
	"time"

	"github.com/tallyapp/tally/internal/category"
	"github.com/tallyapp/tally/internal/ledger"
)

// Period selects the bucket granularity for the trend series.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod maps a query-string value onto a Period. Empty defaults
// to month, matching the original dashboard's trend view.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return Period(s), nil
	case "":
		return PeriodMonth, nil
	}

	return "", fmt.Errorf("unknown period %q", s)
}

// PeriodNet is one bucket of the trend series.
type PeriodNet struct {
	Label string // "2024-01-05", "2024-W02" or "2024-01"
	Net   int64  // signed cents
}

// Summary is the aggregate view over a transaction set. All values are
// signed cents; TotalExpense is negative or zero. The identity
// NetSavings == TotalIncome + TotalExpense holds exactly.
type Summary struct {
	TotalIncome  int64
	TotalExpense int64
	NetSavings   int64
	Count        int
	ByCategory   map[string]int64
	ByPeriod     []PeriodNet
}

// Options controls a Summarize call. Dense zero-fills every taxonomy
// category and every period between the earliest and latest
// transaction; sparse (the default) omits empty groups.
type Options struct {
	Period   Period
	Dense    bool
	Taxonomy *category.Taxonomy // required only for dense category fill
}

// Summarize aggregates the transaction set in one pass. An empty set
// yields an all-zero summary, never an error. The income/expense split
// follows the amount sign.
func Summarize(txs []*ledger.Transaction, opts Options) Summary {
	s := Summary{
		Count:      len(txs),
		ByCategory: make(map[string]int64),
	}

	// An empty set stays empty even in dense mode: there is no date
	// range to fill and nothing useful to chart.
	if opts.Dense && opts.Taxonomy != nil && len(txs) > 0 {
		for _, c := range opts.Taxonomy.Categories() {
			s.ByCategory[c.Name] = 0
		}
	}

	byPeriod := make(map[string]int64)

	var minDate, maxDate time.Time

	for i, tx := range txs {
		if tx.Amount > 0 {
			s.TotalIncome += tx.Amount
		} else {
			s.TotalExpense += tx.Amount
		}

		s.ByCategory[tx.Category] += tx.Amount
		byPeriod[bucketLabel(tx.Date, opts.Period)] += tx.Amount

		if i == 0 || tx.Date.Before(minDate) {
			minDate = tx.Date
		}

		if i == 0 || tx.Date.After(maxDate) {
			maxDate = tx.Date
		}
	}

	s.NetSavings = s.TotalIncome + s.TotalExpense

	if opts.Dense && len(txs) > 0 {
		for d := bucketStart(minDate, opts.Period); !d.After(maxDate); d = nextBucket(d, opts.Period) {
			label := bucketLabel(d, opts.Period)
			if _, ok := byPeriod[label]; !ok {
				byPeriod[label] = 0
			}
		}
	}

	s.ByPeriod = make([]PeriodNet, 0, len(byPeriod))
	for label, net := range byPeriod {
		s.ByPeriod = append(s.ByPeriod, PeriodNet{Label: label, Net: net})
	}

	// Labels are zero-padded, so lexicographic order is chronological.
	sort.Slice(s.ByPeriod, func(i, j int) bool {
		return s.ByPeriod[i].Label < s.ByPeriod[j].Label
	})

	return s
}

func bucketLabel(date time.Time, p Period) string {
	switch p {
	case PeriodDay:
		return date.Format(time.DateOnly)
	case PeriodWeek:
		year, week := date.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default:
		return date.Format("2006-01")
	}
}

// bucketStart returns the first day of the bucket containing date, so
// the dense fill steps through whole buckets.
func bucketStart(date time.Time, p Period) time.Time {
	switch p {
	case PeriodDay:
		return date
	case PeriodWeek:
		// Walk back to Monday, the ISO week start.
		offset := (int(date.Weekday()) + 6) % 7
		return date.AddDate(0, 0, -offset)
	default:
		return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

func nextBucket(date time.Time, p Period) time.Time {
	switch p {
	case PeriodDay:
		return date.AddDate(0, 0, 1)
	case PeriodWeek:
		return date.AddDate(0, 0, 7)
	default:
		return date.AddDate(0, 1, 0)
	}
}
