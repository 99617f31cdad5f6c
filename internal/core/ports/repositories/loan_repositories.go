package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/scroogebank/corebank/internal/core/domain"
)

// LoanAdvisoryLocker provides the named locks that serialize loan flows.
// Both locks are transaction-scoped: they release on commit or rollback.
type LoanAdvisoryLocker interface {
	// AcquireApprovalLockInTx takes the bank-wide approval lock. All loan
	// applications serialize behind it regardless of applicant.
	AcquireApprovalLockInTx(ctx context.Context, tx pgx.Tx) error

	// AcquireLoanLockInTx takes the lock keyed to a single loan, so payments
	// on one loan serialize while payments on different loans proceed
	// concurrently.
	AcquireLoanLockInTx(ctx context.Context, tx pgx.Tx, loanID string) error
}

// LoanReader defines read operations for loans and their sub-records
type LoanReader interface {
	// ListLoansByUserID returns all of the user's loan applications.
	ListLoansByUserID(ctx context.Context, userID string) ([]domain.Loan, error)

	// FindApprovedLoanByUserIDInTx returns the user's open (APPROVED) loan,
	// or nil when there is none.
	FindApprovedLoanByUserIDInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.Loan, error)

	// FindApprovedLoansByUserIDInTx returns all of the user's open loans.
	FindApprovedLoansByUserIDInTx(ctx context.Context, tx pgx.Tx, userID string) ([]domain.Loan, error)

	// FindLoanByClientKeyInTx returns the user's loan previously decided
	// under the given idempotency key, or nil.
	FindLoanByClientKeyInTx(ctx context.Context, tx pgx.Tx, userID string, clientKey string) (*domain.Loan, error)

	// FindLoanForUpdateInTx loads and locks the loan scoped to (id, owner).
	// Absence and wrong owner both surface as apperrors.ErrNotFound.
	FindLoanForUpdateInTx(ctx context.Context, tx pgx.Tx, loanID string, userID string) (*domain.Loan, error)

	// FindDisbursementByLoanIDInTx returns the loan's disbursement, or nil
	// for a rejected loan.
	FindDisbursementByLoanIDInTx(ctx context.Context, tx pgx.Tx, loanID string) (*domain.LoanDisbursement, error)

	// FindPaymentByIDInTx returns the payment with the client-supplied id,
	// or nil when it has not been applied.
	FindPaymentByIDInTx(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.LoanPayment, error)

	// SumDisbursementsInTx returns the total disbursed for a loan.
	SumDisbursementsInTx(ctx context.Context, tx pgx.Tx, loanID string) (int64, error)

	// SumPaymentsInTx returns the total repaid on a loan.
	SumPaymentsInTx(ctx context.Context, tx pgx.Tx, loanID string) (int64, error)
}

// LoanWriter defines write operations for loans and their sub-records
type LoanWriter interface {
	// SaveLoanInTx persists a loan with its terminal decision.
	SaveLoanInTx(ctx context.Context, tx pgx.Tx, loan domain.Loan) error

	// SaveDisbursementInTx persists the one disbursement of an approved loan.
	SaveDisbursementInTx(ctx context.Context, tx pgx.Tx, disbursement domain.LoanDisbursement) error

	// SavePaymentInTx persists a payment keyed by its client-supplied id.
	// A primary key violation surfaces as apperrors.ErrDuplicate.
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.LoanPayment) error

	// CloseLoanInTx transitions an APPROVED loan to CLOSED.
	CloseLoanInTx(ctx context.Context, tx pgx.Tx, loanID string, decisionAt time.Time) error
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanAdvisoryLocker
	LoanReader
	LoanWriter
}

// LoanRepositoryWithTx extends LoanRepositoryFacade with transaction capabilities
type LoanRepositoryWithTx interface {
	LoanRepositoryFacade
	TransactionManager
}
