package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/tallyapp/tally/internal/ledger"
)

type transactionResponse struct {
	ID          uuid.UUID `json:"id"`
	Date        string    `json:"date"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date.Format(time.DateOnly),
		AmountCents: tx.Amount,
		Amount:      ledger.FormatAmount(tx.Amount),
		Category:    tx.Category,
		Description: tx.Description,
		Source:      tx.Source,
		CreatedAt:   tx.CreatedAt,
	}
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
