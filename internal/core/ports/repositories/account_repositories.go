package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/scroogebank/corebank/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindOpenAccountByID retrieves an open account by its identifier.
	FindOpenAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListOpenAccountsByUserID retrieves all open accounts owned by a user.
	ListOpenAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate if
	// the user already holds an open account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines operations that run inside an engine's
// unit of work. The *ForUpdate variants take an exclusive row lock held
// until the transaction ends.
type AccountTransactionSupport interface {
	// FindOpenAccountForUpdateInTx loads and locks the account scoped to
	// (id, owner, open). Absence, a different owner and a closed account all
	// surface as apperrors.ErrNotFound.
	FindOpenAccountForUpdateInTx(ctx context.Context, tx pgx.Tx, accountID string, userID string) (*domain.Account, error)

	// FindAccountForUpdateInTx loads and locks the account by id alone,
	// regardless of owner or status.
	FindAccountForUpdateInTx(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// FindAccountByIDInTx reads the account without locking. Used for the
	// fresh balance returned on idempotent replays.
	FindAccountByIDInTx(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// FindOpenAccountByUserIDInTx retrieves the user's open account, if any.
	FindOpenAccountByUserIDInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.Account, error)

	// UpdateBalanceInTx persists a new balance for the locked account.
	UpdateBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalanceCents int64) error

	// CloseAccountInTx marks the account closed.
	CloseAccountInTx(ctx context.Context, tx pgx.Tx, accountID string, closedAt time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
