package services

import (
	"context"
	"time"

	"github.com/scroogebank/corebank/internal/core/domain"
	"github.com/scroogebank/corebank/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccount retrieves the user's open account by its identifier. Wrong
	// owner and closed status both surface as apperrors.ErrNotFound.
	GetAccount(ctx context.Context, userID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the user's open accounts.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// GetStatement assembles a consistent statement for the user's account:
	// its balance, the owner's open loans and the transactions in [from, to].
	GetStatement(ctx context.Context, userID string, accountID string, from, to time.Time) (*dto.StatementResponse, error)
}

// AccountWriterSvc defines lifecycle operations for accounts
type AccountWriterSvc interface {
	// CreateAccount opens the user's account. A user holds at most one open
	// account; a second open attempt fails with apperrors.ErrDuplicate.
	CreateAccount(ctx context.Context, userID string) (*domain.Account, error)

	// CloseAccount closes the user's account. Accounts with open loans or a
	// non-zero balance cannot be closed (apperrors.ErrValidation).
	CloseAccount(ctx context.Context, userID string, accountID string) (*domain.Account, error)
}

// MoneyMoverSvc is the money-movement engine: deposits and withdrawals with
// idempotent replay, applied atomically against the account, the
// transaction log and the bank ledger.
type MoneyMoverSvc interface {
	// Deposit credits the account.
	Deposit(ctx context.Context, userID string, req dto.MovementRequest) (*domain.MovementResult, error)

	// Withdraw debits the account; the balance may not go negative.
	Withdraw(ctx context.Context, userID string, req dto.MovementRequest) (*domain.MovementResult, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	MoneyMoverSvc
}
