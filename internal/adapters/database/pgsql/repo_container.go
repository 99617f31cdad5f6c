package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/scroogebank/corebank/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository over one shared pool. The
// advisory lock keys come from configuration so deployments (and tests) can
// pick a private keyspace.
func NewRepositoryProvider(pool *pgxpool.Pool, approvalLockKey, paymentLockKey int64) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     NewAccountRepository(pool),
		TransactionRepo: NewTransactionRepository(pool),
		LedgerRepo:      NewLedgerRepository(pool),
		LoanRepo:        NewLoanRepository(pool, approvalLockKey, paymentLockKey),
		UserRepo:        NewUserRepository(pool),
	}
}
