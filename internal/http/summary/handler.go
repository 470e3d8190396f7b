// Package summary exposes the aggregation query surface. Chart and
// dashboard layers consume this JSON; they never see raw transactions.
package summary

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyapp/tally/internal/category"
	"github.com/tallyapp/tally/internal/http/request"
	"github.com/tallyapp/tally/internal/ledger"
	"github.com/tallyapp/tally/internal/summary"
)

type Handler struct {
	svc      *ledger.Service
	taxonomy *category.Taxonomy
}

func NewHandler(svc *ledger.Service, taxonomy *category.Taxonomy) *Handler {
	return &Handler{svc: svc, taxonomy: taxonomy}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summarize)
}

type periodResponse struct {
	Label    string `json:"label"`
	NetCents int64  `json:"net_cents"`
	Net      string `json:"net"`
}

type shareResponse struct {
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Percent     string `json:"percent"`
}

type summaryResponse struct {
	TotalIncomeCents  int64            `json:"total_income_cents"`
	TotalIncome       string           `json:"total_income"`
	TotalExpenseCents int64            `json:"total_expense_cents"`
	TotalExpense      string           `json:"total_expense"`
	NetSavingsCents   int64            `json:"net_savings_cents"`
	NetSavings        string           `json:"net_savings"`
	Count             int              `json:"count"`
	AverageAmount     string           `json:"average_amount"`
	ByCategory        map[string]int64 `json:"by_category"`
	ByPeriod          []periodResponse `json:"by_period"`
	IncomeShares      []shareResponse  `json:"income_shares"`
	ExpenseShares     []shareResponse  `json:"expense_shares"`
}

// summarize recomputes the aggregate view from the current store
// contents on every call. Empty ledgers produce an all-zero summary.
func (h *Handler) summarize(w http.ResponseWriter, r *http.Request) {
	filter, err := request.FilterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	period, err := summary.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dense := r.URL.Query().Get("dense") == "true"

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s := summary.Summarize(txs, summary.Options{
		Period:   period,
		Dense:    dense,
		Taxonomy: h.taxonomy,
	})

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(s)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toResponse(s summary.Summary) summaryResponse {
	resp := summaryResponse{
		TotalIncomeCents:  s.TotalIncome,
		TotalIncome:       ledger.FormatAmount(s.TotalIncome),
		TotalExpenseCents: s.TotalExpense,
		TotalExpense:      ledger.FormatAmount(s.TotalExpense),
		NetSavingsCents:   s.NetSavings,
		NetSavings:        ledger.FormatAmount(s.NetSavings),
		Count:             s.Count,
		AverageAmount:     s.AverageAmount(),
		ByCategory:        s.ByCategory,
		ByPeriod:          make([]periodResponse, len(s.ByPeriod)),
		IncomeShares:      toShares(s.IncomeShares()),
		ExpenseShares:     toShares(s.ExpenseShares()),
	}

	for i, p := range s.ByPeriod {
		resp.ByPeriod[i] = periodResponse{
			Label:    p.Label,
			NetCents: p.Net,
			Net:      ledger.FormatAmount(p.Net),
		}
	}

	return resp
}

func toShares(shares []summary.CategoryShare) []shareResponse {
	resp := make([]shareResponse, len(shares))
	for i, sh := range shares {
		resp[i] = shareResponse{
			Category:    sh.Category,
			AmountCents: sh.Amount,
			Amount:      ledger.FormatAmount(sh.Amount),
			Percent:     sh.Percent,
		}
	}

	return resp
}
