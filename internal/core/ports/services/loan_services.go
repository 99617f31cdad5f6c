package services

import (
	"context"

	"github.com/scroogebank/corebank/internal/core/domain"
	"github.com/scroogebank/corebank/internal/dto"
)

// LoanSvcFacade groups the loan underwriting and repayment engines.
type LoanSvcFacade interface {
	// ListLoans returns all of the user's loan applications.
	ListLoans(ctx context.Context, userID string) ([]domain.Loan, error)

	// ApplyForLoan runs the underwriting engine: serialized bank-wide,
	// decided once against a consistent ledger snapshot, disbursed
	// immediately on approval.
	ApplyForLoan(ctx context.Context, userID string, req dto.ApplyLoanRequest) (*domain.LoanDecision, error)

	// PayLoan runs the repayment engine: serialized per loan, idempotent on
	// the client-supplied payment id, withdrawing from the paying account
	// and closing the loan on full repayment.
	PayLoan(ctx context.Context, userID string, loanID string, paymentID string, req dto.LoanPaymentRequest) (*domain.PaymentResult, error)
}
