package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/scroogebank/corebank/internal/core/domain"
)

// TransactionReader defines read operations for the per-account transaction log
type TransactionReader interface {
	// ListTransactionsByAccountBetweenInTx returns the account's
	// transactions within [from, to], ordered by creation time.
	ListTransactionsByAccountBetweenInTx(ctx context.Context, tx pgx.Tx, accountID string, from, to time.Time) ([]domain.Transaction, error)

	// FindTransactionByIdempotencyKeyInTx looks up a prior transaction for
	// (accountID, key). Returns nil when the key has not been used.
	FindTransactionByIdempotencyKeyInTx(ctx context.Context, tx pgx.Tx, accountID string, key string) (*domain.Transaction, error)
}

// TransactionWriter defines write operations for the transaction log
type TransactionWriter interface {
	// SaveTransactionInTx inserts an immutable transaction row. A unique
	// violation on (account_id, idempotency_key) surfaces as
	// apperrors.ErrDuplicate so callers can reconcile the race as a replay.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines the transaction log interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends the facade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
