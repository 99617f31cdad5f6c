package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/scroogebank/corebank/internal/apperrors"
	"github.com/scroogebank/corebank/internal/core/domain"
	portsrepo "github.com/scroogebank/corebank/internal/core/ports/repositories"
	portssvc "github.com/scroogebank/corebank/internal/core/ports/services"
	"github.com/scroogebank/corebank/internal/dto"
	"github.com/scroogebank/corebank/internal/middleware"
	"github.com/scroogebank/corebank/internal/utils/money"
)

// movementContext carries the state a movement rule inspects.
type movementContext struct {
	account     *domain.Account
	txType      domain.TransactionType
	amountCents int64
}

// movementRule is one named precondition of a money movement.
type movementRule struct {
	tag   string
	check func(mc movementContext) error
}

// movementRules are evaluated in declaration order after the account row is
// locked and before any mutation. The set is closed and every rule carries a
// tag so validation failures are attributable in logs.
var movementRules = []movementRule{
	{
		tag: "amount_positive",
		check: func(mc movementContext) error {
			if mc.amountCents <= 0 {
				return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
			}
			return nil
		},
	},
	{
		tag: "account_open",
		check: func(mc movementContext) error {
			if mc.account == nil || !mc.account.IsOpen() {
				return apperrors.ErrNotFound
			}
			return nil
		},
	},
	{
		tag: "sufficient_funds",
		check: func(mc movementContext) error {
			if mc.txType == domain.Withdrawal && mc.account.BalanceCents < mc.amountCents {
				return fmt.Errorf("%w: balance %d is less than requested %d", apperrors.ErrInsufficientFunds, mc.account.BalanceCents, mc.amountCents)
			}
			return nil
		},
	},
}

// accountService provides account lifecycle operations and the money
// movement engine.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryWithTx
	txnRepo     portsrepo.TransactionRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	loanRepo    portsrepo.LoanRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryWithTx, txnRepo portsrepo.TransactionRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, loanRepo portsrepo.LoanRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		ledgerRepo:  ledgerRepo,
		loanRepo:    loanRepo,
	}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens the user's account with a zero balance. The store's
// unique constraint on open ownership keeps this to one open account per
// user even under concurrent creation.
func (s *accountService) CreateAccount(ctx context.Context, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account := domain.Account{
		AccountID:    uuid.NewString(),
		UserID:       userID,
		BalanceCents: 0,
		Status:       domain.AccountOpen,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Warn("Failed to create account", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("user_id", userID))
	return &account, nil
}

// GetAccount retrieves the user's open account. Absence, a different owner
// and a closed account are indistinguishable to the caller.
func (s *accountService) GetAccount(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindOpenAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// ListAccounts retrieves the user's open accounts.
func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.accountRepo.ListOpenAccountsByUserID(ctx, userID)
}

// GetStatement assembles the account balance, the owner's open loans and
// the transactions in [from, to] inside one transaction so the three reads
// describe a single point in time.
func (s *accountService) GetStatement(ctx context.Context, userID string, accountID string, from, to time.Time) (*dto.StatementResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction for statement", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.accountRepo.Rollback(ctx, tx) //nolint:errcheck

	account, err := s.accountRepo.FindAccountByIDInTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID || !account.IsOpen() {
		return nil, apperrors.ErrNotFound
	}

	loans, err := s.loanRepo.FindApprovedLoansByUserIDInTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListTransactionsByAccountBetweenInTx(ctx, tx, accountID, from, to)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit statement transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	statement := dto.ToStatementResponse(account.BalanceCents, loans, txns)
	return &statement, nil
}

// CloseAccount closes the user's account. An account with a non-zero
// balance or an open loan stays open.
func (s *accountService) CloseAccount(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction for account close", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.accountRepo.Rollback(ctx, tx) //nolint:errcheck

	account, err := s.accountRepo.FindOpenAccountForUpdateInTx(ctx, tx, accountID, userID)
	if err != nil {
		return nil, err
	}

	if account.BalanceCents != 0 {
		return nil, fmt.Errorf("%w: account has a balance", apperrors.ErrValidation)
	}

	openLoans, err := s.loanRepo.FindApprovedLoansByUserIDInTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if len(openLoans) > 0 {
		return nil, fmt.Errorf("%w: account has loans", apperrors.ErrValidation)
	}

	closedAt := time.Now().UTC()
	if err := s.accountRepo.CloseAccountInTx(ctx, tx, accountID, closedAt); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit account close", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Account closed", slog.String("account_id", accountID), slog.String("user_id", userID))
	account.Status = domain.AccountClosed
	account.ClosedAt = &closedAt
	return account, nil
}

// Deposit credits the account.
func (s *accountService) Deposit(ctx context.Context, userID string, req dto.MovementRequest) (*domain.MovementResult, error) {
	return s.processMovement(ctx, userID, req, domain.Deposit)
}

// Withdraw debits the account. The balance may not go negative.
func (s *accountService) Withdraw(ctx context.Context, userID string, req dto.MovementRequest) (*domain.MovementResult, error) {
	return s.processMovement(ctx, userID, req, domain.Withdrawal)
}

// processMovement is the money movement engine. The whole flow runs inside
// one transaction: the account row lock totally orders movements per
// account, and the transaction row is written before the balance update so
// idempotency is anchored to the insert rather than the mutation.
func (s *accountService) processMovement(ctx context.Context, userID string, req dto.MovementRequest, txType domain.TransactionType) (*domain.MovementResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amountCents, err := money.ToCents(req.Amount)
	if err != nil {
		return nil, err
	}
	if amountCents <= 0 {
		// Rejected before any lock is taken.
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction for movement", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.accountRepo.Rollback(ctx, tx) //nolint:errcheck

	account, err := s.accountRepo.FindOpenAccountForUpdateInTx(ctx, tx, req.AccountID, userID)
	if err != nil {
		return nil, err
	}

	mc := movementContext{account: account, txType: txType, amountCents: amountCents}
	for _, rule := range movementRules {
		if err := rule.check(mc); err != nil {
			logger.Warn("Movement validation failed",
				slog.String("rule", rule.tag),
				slog.String("account_id", req.AccountID),
				slog.String("type", string(txType)))
			return nil, err
		}
	}

	if req.IdempotencyKey != "" {
		existing, err := s.txnRepo.FindTransactionByIdempotencyKeyInTx(ctx, tx, req.AccountID, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return s.settleReplay(ctx, tx, existing, txType, amountCents)
		}
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       req.AccountID,
		Type:            txType,
		AmountCents:     amountCents,
		IdempotencyKey:  req.IdempotencyKey,
		CreatedByUserID: userID,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.txnRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && req.IdempotencyKey != "" {
			// A concurrent request won the insert race on this key.
			// Re-fetch and reconcile exactly as the lookup above.
			existing, ferr := s.txnRepo.FindTransactionByIdempotencyKeyInTx(ctx, tx, req.AccountID, req.IdempotencyKey)
			if ferr != nil {
				return nil, ferr
			}
			if existing != nil {
				return s.settleReplay(ctx, tx, existing, txType, amountCents)
			}
		}
		return nil, err
	}

	newBalance := account.BalanceCents + txn.SignedAmount()
	if newBalance < 0 {
		return nil, fmt.Errorf("%w: balance %d is less than requested %d", apperrors.ErrInsufficientFunds, account.BalanceCents, amountCents)
	}

	if err := s.accountRepo.UpdateBalanceInTx(ctx, tx, req.AccountID, newBalance); err != nil {
		return nil, err
	}

	entryKind := domain.LedgerDeposit
	if txType == domain.Withdrawal {
		entryKind = domain.LedgerWithdrawal
	}
	entry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		Kind:          entryKind,
		AmountCents:   txn.SignedAmount(),
		OccurredAt:    txn.CreatedAt,
		TransactionID: txn.TransactionID,
	}
	if err := s.ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit movement", slog.String("account_id", req.AccountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Movement applied",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", req.AccountID),
		slog.String("type", string(txType)),
		slog.Int64("amount_cents", amountCents))

	return &domain.MovementResult{
		TransactionID:   txn.TransactionID,
		AccountID:       req.AccountID,
		NewBalanceCents: newBalance,
		CreatedAt:       txn.CreatedAt,
	}, nil
}

// settleReplay resolves an idempotency key that already carries a committed
// transaction. A matching operation returns the recorded result with the
// current balance; anything else is a conflict. The replay path commits so
// the lock releases without discarding unrelated session state.
func (s *accountService) settleReplay(ctx context.Context, tx pgx.Tx, existing *domain.Transaction, txType domain.TransactionType, amountCents int64) (*domain.MovementResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !existing.Matches(txType, amountCents) {
		return nil, fmt.Errorf("%w: key already used for a %s of %d cents", apperrors.ErrIdempotencyConflict, existing.Type, existing.AmountCents)
	}

	fresh, err := s.accountRepo.FindAccountByIDInTx(ctx, tx, existing.AccountID)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Movement replayed",
		slog.String("transaction_id", existing.TransactionID),
		slog.String("account_id", existing.AccountID))

	return &domain.MovementResult{
		TransactionID:   existing.TransactionID,
		AccountID:       existing.AccountID,
		NewBalanceCents: fresh.BalanceCents,
		CreatedAt:       existing.CreatedAt,
	}, nil
}
