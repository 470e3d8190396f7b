// Package store implements the ledger's persistence contract on
// Postgres. It owns transaction identity: ids are random v4 UUIDs and
// are never reused, even after deletion.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/tallyapp/tally/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the transactions table if it does not exist.
// Statements run one at a time; the pgx driver rejects multi-statement
// strings.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			date DATE NOT NULL,
			amount_cents BIGINT NOT NULL CHECK (amount_cents <> 0),
			category TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (date)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions (category)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `id, date, amount_cents, category, description, source, created_at`

func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	if err := s.Scan(
		&tx.ID, &tx.Date, &tx.Amount, &tx.Category, &tx.Description, &tx.Source, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Date = tx.Date.UTC()

	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (date, amount_cents, category, description, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Date,
		tx.Amount,
		tx.Category,
		tx.Description,
		tx.Source,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

// ListTransactions returns matching transactions ordered by date then
// creation time, as a point-in-time snapshot (single query).
func (s *Store) ListTransactions(ctx context.Context, filter ledger.Filter) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date ASC, created_at ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

// batchLockKey derives an advisory lock key from the batch's date
// range so overlapping imports serialize against each other.
func batchLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type batchTx struct {
	tx *sql.Tx
}

func (s *Store) BeginBatch(ctx context.Context, minDate, maxDate time.Time) (ledger.BatchTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning batch tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", batchLockKey(minDate, maxDate)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring batch lock: %w", err)
	}

	return &batchTx{tx: dbTx}, nil
}

func (b *batchTx) Commit() error   { return b.tx.Commit() }
func (b *batchTx) Rollback() error { return b.tx.Rollback() }

// FindDuplicates returns stored transactions whose content matches any
// of the incoming params. Matching is by date, amount, category and
// description; the query is bounded to the batch's date range.
func (b *batchTx) FindDuplicates(ctx context.Context, params []ledger.CreateParams) ([]*ledger.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type key struct {
		Date        string
		Amount      int64
		Category    string
		Description string
	}

	minDate := params[0].Date
	maxDate := params[0].Date
	keySet := make(map[key]struct{}, len(params))

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}

		keySet[key{p.Date.Format(time.DateOnly), p.Amount, p.Category, p.Description}] = struct{}{}
	}

	query := `SELECT ` + selectColumns + `
		FROM transactions
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC`

	rows, err := b.tx.QueryContext(ctx, query, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		k := key{tx.Date.Format(time.DateOnly), tx.Amount, tx.Category, tx.Description}
		if _, found := keySet[k]; !found {
			continue
		}

		duplicates = append(duplicates, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (b *batchTx) CreateTransactions(ctx context.Context, txs []*ledger.Transaction) error {
	query := `
		INSERT INTO transactions (date, amount_cents, category, description, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	for _, tx := range txs {
		err := b.tx.QueryRowContext(ctx, query,
			tx.Date,
			tx.Amount,
			tx.Category,
			tx.Description,
			tx.Source,
		).Scan(&tx.ID, &tx.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}
