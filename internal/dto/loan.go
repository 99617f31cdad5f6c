package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/scroogebank/corebank/internal/core/domain"
	"github.com/scroogebank/corebank/internal/utils/money"
)

// ApplyLoanRequest defines the body of a loan application.
type ApplyLoanRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required,positiveamount"`
	IdempotencyKey string          `json:"idempotencyKey"` // Optional
}

// LoanResponse defines the data returned for a loan.
type LoanResponse struct {
	LoanID     string          `json:"loanID"`
	Principal  decimal.Decimal `json:"principal"`
	Status     string          `json:"status"`
	Reason     string          `json:"reason,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	DecisionAt time.Time       `json:"decisionAt"`
}

// ToLoanResponse converts a domain.Loan to LoanResponse DTO
func ToLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:     l.LoanID,
		Principal:  money.FromCents(l.PrincipalCents),
		Status:     string(l.Status),
		Reason:     l.Reason,
		CreatedAt:  l.CreatedAt,
		DecisionAt: l.DecisionAt,
	}
}

// ToListLoanResponse converts a slice of domain.Loan to LoanResponse DTOs
func ToListLoanResponse(loans []domain.Loan) []LoanResponse {
	res := make([]LoanResponse, len(loans))
	for i, l := range loans {
		res[i] = ToLoanResponse(&l)
	}
	return res
}

// LoanDecisionResponse defines the outcome of a loan application.
type LoanDecisionResponse struct {
	LoanID         string          `json:"loanID"`
	Status         string          `json:"status"`
	Principal      decimal.Decimal `json:"principal"`
	DisbursementID string          `json:"disbursementID,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	DecisionAt     time.Time       `json:"decisionAt"`
}

// ToLoanDecisionResponse converts a domain.LoanDecision to its DTO
func ToLoanDecisionResponse(d *domain.LoanDecision) LoanDecisionResponse {
	return LoanDecisionResponse{
		LoanID:         d.LoanID,
		Status:         string(d.Status),
		Principal:      money.FromCents(d.PrincipalCents),
		DisbursementID: d.DisbursementID,
		Reason:         d.Reason,
		DecisionAt:     d.DecisionAt,
	}
}

// LoanPaymentRequest defines the body of a loan payment. The payment id
// travels in the URL and doubles as the idempotency key.
type LoanPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required,positiveamount"`
	FromAccountID string          `json:"fromAccountID" binding:"required,uuid"`
}

// LoanPaymentResponse defines the result of an applied (or replayed) payment.
type LoanPaymentResponse struct {
	PaymentID  string          `json:"paymentID"`
	LoanID     string          `json:"loanID"`
	Amount     decimal.Decimal `json:"amount"`
	Remaining  decimal.Decimal `json:"remaining"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// ToLoanPaymentResponse converts a domain.PaymentResult to its DTO
func ToLoanPaymentResponse(r *domain.PaymentResult) LoanPaymentResponse {
	return LoanPaymentResponse{
		PaymentID:  r.PaymentID,
		LoanID:     r.LoanID,
		Amount:     money.FromCents(r.AmountCents),
		Remaining:  money.FromCents(r.RemainingCents),
		OccurredAt: r.OccurredAt,
	}
}
