package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=store_mock.go -package=ledger
type Store interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter Filter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	BeginBatch(ctx context.Context, minDate, maxDate time.Time) (BatchTx, error)
}

// BatchTx is one atomic unit of work for a batch write. The store must
// serialize overlapping batches and make the writes durable on Commit.
type BatchTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

// Filter narrows ListTransactions results. Nil fields are ignored.
type Filter struct {
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int // 0 = no limit
}

type CreateParams struct {
	Date        time.Time
	Amount      int64 // signed cents, nonzero
	Category    string
	Description string
}

// Service owns all mutation of the ledger; readers and the import
// pipeline go through it rather than the store directly.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create persists a single manually entered transaction.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := &Transaction{
		Date:        truncateToDay(params.Date),
		Amount:      params.Amount,
		Category:    params.Category,
		Description: params.Description,
		Source:      SourceManual,
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Transaction, error) {
	return s.store.ListTransactions(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteTransaction(ctx, id)
}

// Duplicate pairs an incoming batch row with the stored transaction it
// collides with.
type Duplicate struct {
	Index    int // position in the params slice handed to ImportBatch
	Existing *Transaction
}

// BatchResult reports what one ImportBatch call did.
type BatchResult struct {
	Created []*Transaction
	Skipped []Duplicate
}

// ImportBatch persists a validated batch of transactions tagged with
// the given batch id, inside one store transaction. Rows whose content
// matches an already stored transaction are skipped rather than
// re-created, so re-uploading a file is harmless.
func (s *Service) ImportBatch(ctx context.Context, batchID uuid.UUID, params []CreateParams) (*BatchResult, error) {
	if len(params) == 0 {
		return &BatchResult{}, nil
	}

	for i := range params {
		params[i].Date = truncateToDay(params[i].Date)
	}

	minDate, maxDate := dateRange(params)

	btx, err := s.store.BeginBatch(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer btx.Rollback()

	existing, err := btx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[contentKey]*Transaction, len(existing))
	for _, tx := range existing {
		lookup[keyOf(tx.Date, tx.Amount, tx.Category, tx.Description)] = tx
	}

	result := &BatchResult{}
	source := ImportSource(batchID)

	var txs []*Transaction

	for i, p := range params {
		k := keyOf(p.Date, p.Amount, p.Category, p.Description)

		if found, ok := lookup[k]; ok {
			result.Skipped = append(result.Skipped, Duplicate{Index: i, Existing: found})
			continue
		}

		txs = append(txs, &Transaction{
			Date:        p.Date,
			Amount:      p.Amount,
			Category:    p.Category,
			Description: p.Description,
			Source:      source,
		})
	}

	if len(txs) > 0 {
		if err := btx.CreateTransactions(ctx, txs); err != nil {
			return nil, fmt.Errorf("create transactions: %w", err)
		}
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	result.Created = txs

	return result, nil
}

type contentKey struct {
	Date        string
	Amount      int64
	Category    string
	Description string
}

func keyOf(date time.Time, amount int64, cat, desc string) contentKey {
	return contentKey{
		Date:        date.Format(time.DateOnly),
		Amount:      amount,
		Category:    cat,
		Description: desc,
	}
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
