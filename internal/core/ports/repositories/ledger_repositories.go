package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/scroogebank/corebank/internal/core/domain"
)

// LedgerReader defines read operations over the append-only bank ledger
type LedgerReader interface {
	// SumLedger returns the signed sum of every ledger entry: total bank
	// cash on hand. May be negative.
	SumLedger(ctx context.Context) (int64, error)

	// FetchLedgerSums aggregates the ledger by kind without locking. Used
	// by the read-only operator endpoints.
	FetchLedgerSums(ctx context.Context) (domain.LedgerSums, error)

	// FetchLedgerSumsInTx aggregates the ledger by kind inside the caller's
	// transaction. Under the approval lock this is a true snapshot.
	FetchLedgerSumsInTx(ctx context.Context, tx pgx.Tx) (domain.LedgerSums, error)
}

// LedgerWriter defines the single write operation the ledger supports.
type LedgerWriter interface {
	// AppendEntryInTx appends one immutable ledger entry. Entries are never
	// updated or deleted.
	AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines the ledger interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends the facade with transaction capabilities
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
