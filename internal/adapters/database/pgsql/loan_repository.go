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

const loanColumns = `loan_id, user_id, principal_cents, status, client_key, reason, created_at, decision_at`

type PgxLoanRepository struct {
	BaseRepository
	approvalLockKey int64
	paymentLockKey  int64
}

// NewLoanRepository creates a new repository for loans and their
// disbursements and payments. The advisory lock keys are configurable so
// tests can use a private keyspace.
func NewLoanRepository(pool *pgxpool.Pool, approvalLockKey, paymentLockKey int64) portsrepo.LoanRepositoryWithTx {
	return &PgxLoanRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		approvalLockKey: approvalLockKey,
		paymentLockKey:  paymentLockKey,
	}
}

// Ensure PgxLoanRepository implements portsrepo.LoanRepositoryWithTx
var _ portsrepo.LoanRepositoryWithTx = (*PgxLoanRepository)(nil)

// AcquireApprovalLockInTx takes the bank-wide approval lock. The lock is
// transaction scoped: it releases on commit or rollback.
func (r *PgxLoanRepository) AcquireApprovalLockInTx(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1);`, r.approvalLockKey); err != nil {
		return fmt.Errorf("failed to acquire loan approval lock: %w", err)
	}
	return nil
}

// AcquireLoanLockInTx takes the lock keyed to one loan. hashtext folds the
// loan id into the 32-bit half of the two-key advisory lock space.
func (r *PgxLoanRepository) AcquireLoanLockInTx(ctx context.Context, tx pgx.Tx, loanID string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, hashtext($2));`, r.paymentLockKey, loanID); err != nil {
		return fmt.Errorf("failed to acquire lock for loan %s: %w", loanID, err)
	}
	return nil
}

func scanLoan(row rowScanner) (*domain.Loan, error) {
	var m models.Loan
	err := row.Scan(&m.LoanID, &m.UserID, &m.PrincipalCents, &m.Status, &m.ClientKey, &m.Reason, &m.CreatedAt, &m.DecisionAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan loan row: %w", err)
	}
	loan := mapping.ToDomainLoan(m)
	return &loan, nil
}

// ListLoansByUserID returns all of the user's loan applications.
func (r *PgxLoanRepository) ListLoansByUserID(ctx context.Context, userID string) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for user %s: %w", userID, err)
	}
	defer rows.Close()
	return collectLoans(rows)
}

func collectLoans(rows pgx.Rows) ([]domain.Loan, error) {
	var loans []domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading loan rows: %w", err)
	}
	return loans, nil
}

// FindApprovedLoanByUserIDInTx returns the user's open loan, or nil when
// there is none.
func (r *PgxLoanRepository) FindApprovedLoanByUserIDInTx(ctx context.Context, tx pgx.Tx, userID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 AND status = 'approved' LIMIT 1;`
	loan, err := scanLoan(tx.QueryRow(ctx, query, userID))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return loan, err
}

// FindApprovedLoansByUserIDInTx returns all of the user's open loans.
func (r *PgxLoanRepository) FindApprovedLoansByUserIDInTx(ctx context.Context, tx pgx.Tx, userID string) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 AND status = 'approved' ORDER BY created_at;`
	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open loans for user %s: %w", userID, err)
	}
	defer rows.Close()
	return collectLoans(rows)
}

// FindLoanByClientKeyInTx returns the user's loan previously decided under
// the given idempotency key, or nil.
func (r *PgxLoanRepository) FindLoanByClientKeyInTx(ctx context.Context, tx pgx.Tx, userID string, clientKey string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 AND client_key = $2;`
	loan, err := scanLoan(tx.QueryRow(ctx, query, userID, clientKey))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return loan, err
}

// FindLoanForUpdateInTx loads and locks the loan scoped to (id, owner).
// Absence and wrong owner both look the same to the caller.
func (r *PgxLoanRepository) FindLoanForUpdateInTx(ctx context.Context, tx pgx.Tx, loanID string, userID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1 AND user_id = $2 FOR UPDATE;`
	return scanLoan(tx.QueryRow(ctx, query, loanID, userID))
}

// SaveLoanInTx persists a loan with its terminal decision.
func (r *PgxLoanRepository) SaveLoanInTx(ctx context.Context, tx pgx.Tx, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)

	query := `
		INSERT INTO loans (loan_id, user_id, principal_cents, status, client_key, reason, created_at, decision_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query, m.LoanID, m.UserID, m.PrincipalCents, m.Status, m.ClientKey, m.Reason, m.CreatedAt, m.DecisionAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: client key already used for user %s", apperrors.ErrDuplicate, m.UserID)
		}
		return fmt.Errorf("failed to save loan %s: %w", m.LoanID, err)
	}
	return nil
}

// CloseLoanInTx transitions an approved loan to closed.
func (r *PgxLoanRepository) CloseLoanInTx(ctx context.Context, tx pgx.Tx, loanID string, decisionAt time.Time) error {
	query := `UPDATE loans SET status = 'closed', decision_at = $2 WHERE loan_id = $1 AND status = 'approved';`
	tag, err := tx.Exec(ctx, query, loanID, decisionAt)
	if err != nil {
		return fmt.Errorf("failed to close loan %s: %w", loanID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveDisbursementInTx persists the one disbursement of an approved loan.
func (r *PgxLoanRepository) SaveDisbursementInTx(ctx context.Context, tx pgx.Tx, disbursement domain.LoanDisbursement) error {
	m := mapping.ToModelLoanDisbursement(disbursement)

	query := `
		INSERT INTO loan_disbursements (disbursement_id, loan_id, amount_cents, created_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := tx.Exec(ctx, query, m.DisbursementID, m.LoanID, m.AmountCents, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save disbursement %s: %w", m.DisbursementID, err)
	}
	return nil
}

// FindDisbursementByLoanIDInTx returns the loan's disbursement, or nil for
// a rejected loan.
func (r *PgxLoanRepository) FindDisbursementByLoanIDInTx(ctx context.Context, tx pgx.Tx, loanID string) (*domain.LoanDisbursement, error) {
	query := `SELECT disbursement_id, loan_id, amount_cents, created_at FROM loan_disbursements WHERE loan_id = $1;`
	var m models.LoanDisbursement
	err := tx.QueryRow(ctx, query, loanID).Scan(&m.DisbursementID, &m.LoanID, &m.AmountCents, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan disbursement row: %w", err)
	}
	d := mapping.ToDomainLoanDisbursement(m)
	return &d, nil
}

// SavePaymentInTx persists a payment keyed by its client-supplied id.
func (r *PgxLoanRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.LoanPayment) error {
	m := mapping.ToModelLoanPayment(payment)

	query := `
		INSERT INTO loan_payments (payment_id, loan_id, amount_cents, paid_from_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := tx.Exec(ctx, query, m.PaymentID, m.LoanID, m.AmountCents, m.PaidFromAccountID, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment %s already recorded", apperrors.ErrDuplicate, m.PaymentID)
		}
		return fmt.Errorf("failed to save payment %s: %w", m.PaymentID, err)
	}
	return nil
}

// FindPaymentByIDInTx returns the payment with the client-supplied id, or
// nil when it has not been applied.
func (r *PgxLoanRepository) FindPaymentByIDInTx(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.LoanPayment, error) {
	query := `SELECT payment_id, loan_id, amount_cents, paid_from_account_id, created_at FROM loan_payments WHERE payment_id = $1;`
	var m models.LoanPayment
	err := tx.QueryRow(ctx, query, paymentID).Scan(&m.PaymentID, &m.LoanID, &m.AmountCents, &m.PaidFromAccountID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan payment row: %w", err)
	}
	p := mapping.ToDomainLoanPayment(m)
	return &p, nil
}

// SumDisbursementsInTx returns the total disbursed for a loan.
func (r *PgxLoanRepository) SumDisbursementsInTx(ctx context.Context, tx pgx.Tx, loanID string) (int64, error) {
	var total int64
	err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount_cents), 0) FROM loan_disbursements WHERE loan_id = $1;`, loanID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum disbursements for loan %s: %w", loanID, err)
	}
	return total, nil
}

// SumPaymentsInTx returns the total repaid on a loan.
func (r *PgxLoanRepository) SumPaymentsInTx(ctx context.Context, tx pgx.Tx, loanID string) (int64, error) {
	var total int64
	err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount_cents), 0) FROM loan_payments WHERE loan_id = $1;`, loanID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum payments for loan %s: %w", loanID, err)
	}
	return total, nil
}
