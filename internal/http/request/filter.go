// Package request holds query parsing shared by the API handlers.
package request

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tallyapp/tally/internal/ledger"
)

// FilterFromQuery builds a ledger filter from the shared query
// parameters: category, start_date, end_date (ISO dates), limit.
func FilterFromQuery(r *http.Request) (ledger.Filter, error) {
	filter := ledger.Filter{}

	if s := r.URL.Query().Get("category"); s != "" {
		filter.Category = &s
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, errors.New("invalid start_date")
		}

		filter.StartDate = &t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, errors.New("invalid end_date")
		}

		filter.EndDate = &t
	}

	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			return filter, errors.New("invalid limit")
		}

		filter.Limit = limit
	}

	return filter, nil
}
