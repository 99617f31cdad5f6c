package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scroogebank/corebank/internal/apperrors"
	"github.com/scroogebank/corebank/internal/core/domain"
	portsrepo "github.com/scroogebank/corebank/internal/core/ports/repositories"
	"github.com/scroogebank/corebank/internal/models"
	"github.com/scroogebank/corebank/internal/utils/mapping"
)

const transactionColumns = `transaction_id, account_id, type, amount_cents, idempotency_key, created_by_user_id, created_at`

type PgxTransactionRepository struct {
	BaseRepository
}

// NewTransactionRepository creates a new repository for the per-account
// transaction log.
func NewTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryWithTx
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(&m.TransactionID, &m.AccountID, &m.Type, &m.AmountCents, &m.IdempotencyKey, &m.CreatedByUserID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction row: %w", err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// SaveTransactionInTx inserts an immutable transaction row. A unique
// violation on (account_id, idempotency_key) means a concurrent request
// already consumed the key; the caller reconciles it as a replay.
func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (transaction_id, account_id, type, amount_cents, idempotency_key, created_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := tx.Exec(ctx, query, m.TransactionID, m.AccountID, m.Type, m.AmountCents, m.IdempotencyKey, m.CreatedByUserID, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: idempotency key already consumed for account %s", apperrors.ErrDuplicate, m.AccountID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindTransactionByIdempotencyKeyInTx looks up a prior transaction for
// (accountID, key). Returns nil when the key has not been used.
func (r *PgxTransactionRepository) FindTransactionByIdempotencyKeyInTx(ctx context.Context, tx pgx.Tx, accountID string, key string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1 AND idempotency_key = $2;`
	txn, err := scanTransaction(tx.QueryRow(ctx, query, accountID, key))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return txn, err
}

// ListTransactionsByAccountBetweenInTx returns the account's transactions
// within [from, to], ordered by creation time.
func (r *PgxTransactionRepository) ListTransactionsByAccountBetweenInTx(ctx context.Context, tx pgx.Tx, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at;
	`
	rows, err := tx.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading transaction rows: %w", err)
	}
	return txns, nil
}
