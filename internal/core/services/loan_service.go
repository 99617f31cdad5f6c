package services

import (
	"context"
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

// loanService provides the loan underwriting and repayment engines.
type loanService struct {
	loanRepo    portsrepo.LoanRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	policy      domain.LendingPolicy
}

// NewLoanService creates a new LoanService.
func NewLoanService(loanRepo portsrepo.LoanRepositoryWithTx, accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, policy domain.LendingPolicy) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo:    loanRepo,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		ledgerRepo:  ledgerRepo,
		policy:      policy,
	}
}

// Ensure loanService implements the portssvc.LoanSvcFacade interface
var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// ListLoans returns all of the user's loan applications.
func (s *loanService) ListLoans(ctx context.Context, userID string) ([]domain.Loan, error) {
	return s.loanRepo.ListLoansByUserID(ctx, userID)
}

// ApplyForLoan is the underwriting engine. The bank-wide approval lock
// serializes every application, so the ledger aggregate read below is a
// true snapshot: two concurrent applications that together exceed capacity
// can never both approve.
func (s *loanService) ApplyForLoan(ctx context.Context, userID string, req dto.ApplyLoanRequest) (*domain.LoanDecision, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amountCents, err := money.ToCents(req.Amount)
	if err != nil {
		return nil, err
	}
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	tx, err := s.loanRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction for loan application", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.loanRepo.Rollback(ctx, tx) //nolint:errcheck

	if err := s.loanRepo.AcquireApprovalLockInTx(ctx, tx); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindOpenAccountByUserIDInTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: user must have an open account to apply for loans", apperrors.ErrNotFound)
	}

	existingOpen, err := s.loanRepo.FindApprovedLoanByUserIDInTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if existingOpen != nil && (req.IdempotencyKey == "" || existingOpen.ClientKey != req.IdempotencyKey) {
		return nil, fmt.Errorf("%w: user already has an open loan", apperrors.ErrDuplicate)
	}

	if req.IdempotencyKey != "" {
		existing, err := s.loanRepo.FindLoanByClientKeyInTx(ctx, tx, userID, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return s.replayDecision(ctx, tx, existing, amountCents)
		}
	}

	sums, err := s.ledgerRepo.FetchLedgerSumsInTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	funds := domain.ComputeBankFunds(sums, s.policy)

	logger.Info("Underwriting snapshot",
		slog.Int64("base_cash_cents", funds.BaseCashCents),
		slog.Int64("loanable_from_deposits_cents", funds.LoanableFromDepositsCents),
		slog.Int64("outstanding_cents", funds.OutstandingLoansCents),
		slog.Int64("available_cents", funds.AvailableForLoansCents),
		slog.Int64("requested_cents", amountCents))

	now := time.Now().UTC()
	loan := domain.Loan{
		LoanID:         uuid.NewString(),
		UserID:         userID,
		PrincipalCents: amountCents,
		ClientKey:      req.IdempotencyKey,
		CreatedAt:      now,
		DecisionAt:     now,
	}

	if amountCents > funds.AvailableForLoansCents {
		loan.Status = domain.LoanRejected
		loan.Reason = domain.RejectionInsufficientFunds
		if err := s.loanRepo.SaveLoanInTx(ctx, tx, loan); err != nil {
			return nil, err
		}
		if err := s.loanRepo.Commit(ctx, tx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		logger.Info("Loan rejected", slog.String("loan_id", loan.LoanID), slog.String("user_id", userID))
		return &domain.LoanDecision{
			LoanID:         loan.LoanID,
			Status:         domain.LoanRejected,
			PrincipalCents: amountCents,
			Reason:         loan.Reason,
			DecisionAt:     now,
		}, nil
	}

	loan.Status = domain.LoanApproved
	if err := s.loanRepo.SaveLoanInTx(ctx, tx, loan); err != nil {
		return nil, err
	}

	disbursement := domain.LoanDisbursement{
		DisbursementID: uuid.NewString(),
		LoanID:         loan.LoanID,
		AmountCents:    amountCents,
		CreatedAt:      now,
	}
	if err := s.loanRepo.SaveDisbursementInTx(ctx, tx, disbursement); err != nil {
		return nil, err
	}

	entry := domain.LedgerEntry{
		EntryID:            uuid.NewString(),
		Kind:               domain.LedgerLoanDisbursed,
		AmountCents:        -amountCents,
		OccurredAt:         now,
		LoanDisbursementID: disbursement.DisbursementID,
	}
	if err := s.ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := s.loanRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit loan approval", slog.String("loan_id", loan.LoanID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Loan approved",
		slog.String("loan_id", loan.LoanID),
		slog.String("user_id", userID),
		slog.Int64("principal_cents", amountCents))

	return &domain.LoanDecision{
		LoanID:         loan.LoanID,
		Status:         domain.LoanApproved,
		PrincipalCents: amountCents,
		DisbursementID: disbursement.DisbursementID,
		DecisionAt:     now,
	}, nil
}

// replayDecision returns the recorded outcome of a loan already decided
// under this idempotency key. Reusing a key with a different principal is a
// conflict; nothing is re-decided either way.
func (s *loanService) replayDecision(ctx context.Context, tx pgx.Tx, existing *domain.Loan, amountCents int64) (*domain.LoanDecision, error) {
	if existing.PrincipalCents != amountCents {
		return nil, fmt.Errorf("%w: key already used for a principal of %d cents", apperrors.ErrIdempotencyConflict, existing.PrincipalCents)
	}

	decision := &domain.LoanDecision{
		LoanID:         existing.LoanID,
		Status:         existing.Status,
		PrincipalCents: existing.PrincipalCents,
		Reason:         existing.Reason,
		DecisionAt:     existing.DecisionAt,
	}

	if existing.Status == domain.LoanApproved || existing.Status == domain.LoanClosed {
		disbursement, err := s.loanRepo.FindDisbursementByLoanIDInTx(ctx, tx, existing.LoanID)
		if err != nil {
			return nil, err
		}
		if disbursement != nil {
			decision.DisbursementID = disbursement.DisbursementID
		}
	}

	if err := s.loanRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return decision, nil
}

// PayLoan is the repayment engine. The per-loan lock serializes payments on
// one loan only, so overpayment races are impossible while payments on
// different loans proceed concurrently. The payment id is the idempotency
// key: it is the payment row's primary key and the idempotency key of the
// withdrawal transaction funding it, tying the two writes together.
func (s *loanService) PayLoan(ctx context.Context, userID string, loanID string, paymentID string, req dto.LoanPaymentRequest) (*domain.PaymentResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amountCents, err := money.ToCents(req.Amount)
	if err != nil {
		return nil, err
	}
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	tx, err := s.loanRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction for loan payment", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.loanRepo.Rollback(ctx, tx) //nolint:errcheck

	if err := s.loanRepo.AcquireLoanLockInTx(ctx, tx, loanID); err != nil {
		return nil, err
	}

	existing, err := s.loanRepo.FindPaymentByIDInTx(ctx, tx, paymentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Full idempotent replay: remaining due is recomputed fresh.
		due, err := s.remainingDueInTx(ctx, tx, loanID)
		if err != nil {
			return nil, err
		}
		if err := s.loanRepo.Commit(ctx, tx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		logger.Info("Loan payment replayed", slog.String("payment_id", paymentID), slog.String("loan_id", loanID))
		return &domain.PaymentResult{
			PaymentID:      existing.PaymentID,
			LoanID:         loanID,
			AmountCents:    existing.AmountCents,
			RemainingCents: due,
			OccurredAt:     existing.CreatedAt,
		}, nil
	}

	loan, err := s.loanRepo.FindLoanForUpdateInTx(ctx, tx, loanID, userID)
	if err != nil {
		return nil, err
	}
	if loan.Status == domain.LoanClosed {
		return nil, fmt.Errorf("%w: loan already closed", apperrors.ErrForbidden)
	}

	due, err := s.remainingDueInTx(ctx, tx, loanID)
	if err != nil {
		return nil, err
	}
	if amountCents > due {
		return nil, fmt.Errorf("%w: payment of %d cents exceeds remaining due of %d cents", apperrors.ErrValidation, amountCents, due)
	}

	account, err := s.accountRepo.FindAccountForUpdateInTx(ctx, tx, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID || !account.IsOpen() {
		return nil, fmt.Errorf("%w: invalid source account", apperrors.ErrForbidden)
	}
	if account.BalanceCents < amountCents {
		return nil, fmt.Errorf("%w: balance %d is less than requested %d", apperrors.ErrInsufficientFunds, account.BalanceCents, amountCents)
	}

	now := time.Now().UTC()
	withdrawal := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       req.FromAccountID,
		Type:            domain.Withdrawal,
		AmountCents:     amountCents,
		IdempotencyKey:  paymentID,
		CreatedByUserID: userID,
		CreatedAt:       now,
	}
	if err := s.txnRepo.SaveTransactionInTx(ctx, tx, withdrawal); err != nil {
		return nil, err
	}

	if err := s.accountRepo.UpdateBalanceInTx(ctx, tx, req.FromAccountID, account.BalanceCents-amountCents); err != nil {
		return nil, err
	}

	withdrawalEntry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		Kind:          domain.LedgerWithdrawal,
		AmountCents:   -amountCents,
		OccurredAt:    now,
		TransactionID: withdrawal.TransactionID,
	}
	if err := s.ledgerRepo.AppendEntryInTx(ctx, tx, withdrawalEntry); err != nil {
		return nil, err
	}

	payment := domain.LoanPayment{
		PaymentID:         paymentID,
		LoanID:            loanID,
		AmountCents:       amountCents,
		PaidFromAccountID: req.FromAccountID,
		CreatedAt:         now,
	}
	if err := s.loanRepo.SavePaymentInTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	paymentEntry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		Kind:          domain.LedgerLoanPayment,
		AmountCents:   amountCents,
		OccurredAt:    now,
		LoanPaymentID: paymentID,
	}
	if err := s.ledgerRepo.AppendEntryInTx(ctx, tx, paymentEntry); err != nil {
		return nil, err
	}

	remaining := domain.RemainingDue(due, amountCents)
	if remaining == 0 {
		if err := s.loanRepo.CloseLoanInTx(ctx, tx, loanID, now); err != nil {
			return nil, err
		}
	}

	if err := s.loanRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit loan payment", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Loan payment applied",
		slog.String("payment_id", paymentID),
		slog.String("loan_id", loanID),
		slog.Int64("amount_cents", amountCents),
		slog.Int64("remaining_cents", remaining))

	return &domain.PaymentResult{
		PaymentID:      paymentID,
		LoanID:         loanID,
		AmountCents:    amountCents,
		RemainingCents: remaining,
		OccurredAt:     now,
	}, nil
}

// remainingDueInTx computes the loan's remaining due from its disbursement
// and payment sums, floored at zero.
func (s *loanService) remainingDueInTx(ctx context.Context, tx pgx.Tx, loanID string) (int64, error) {
	disbursed, err := s.loanRepo.SumDisbursementsInTx(ctx, tx, loanID)
	if err != nil {
		return 0, err
	}
	repaid, err := s.loanRepo.SumPaymentsInTx(ctx, tx, loanID)
	if err != nil {
		return 0, err
	}
	return domain.RemainingDue(disbursed, repaid), nil
}
