package domain

import "time"

// LoanStatus is the decision state of a loan application. A loan moves
// PENDING -> APPROVED or REJECTED exactly once; the only later transition is
// APPROVED -> CLOSED on full repayment.
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanRejected LoanStatus = "rejected"
	LoanClosed   LoanStatus = "closed"
)

// RejectionInsufficientFunds is the recorded reason when the requested
// principal exceeds the bank's available lending capacity.
const RejectionInsufficientFunds = "insufficient_bank_funds"

// Loan is a customer's loan application together with its terminal decision.
// A customer holds at most one APPROVED (unclosed) loan at a time.
type Loan struct {
	LoanID         string     `json:"loanID"`
	UserID         string     `json:"userID"`
	PrincipalCents int64      `json:"principalCents"`
	Status         LoanStatus `json:"status"`
	ClientKey      string     `json:"clientKey,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	DecisionAt     time.Time  `json:"decisionAt"`
}

// LoanDisbursement is the one-time transfer of approved principal out of the
// bank's cash position, created exactly once per approved loan.
type LoanDisbursement struct {
	DisbursementID string    `json:"disbursementID"`
	LoanID         string    `json:"loanID"`
	AmountCents    int64     `json:"amountCents"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LoanPayment is one repayment against a loan. Its ID is supplied by the
// client and doubles as the idempotency key (it is the row's primary key).
// The sum of a loan's payments never exceeds the sum of its disbursements.
type LoanPayment struct {
	PaymentID         string    `json:"paymentID"`
	LoanID            string    `json:"loanID"`
	AmountCents       int64     `json:"amountCents"`
	PaidFromAccountID string    `json:"paidFromAccountID"`
	CreatedAt         time.Time `json:"createdAt"`
}

// LoanDecision is the outcome of a loan application, also returned on
// idempotent replays of a decided application.
type LoanDecision struct {
	LoanID         string
	Status         LoanStatus
	PrincipalCents int64
	DisbursementID string
	Reason         string
	DecisionAt     time.Time
}

// PaymentResult is the outcome of an applied (or replayed) loan payment.
type PaymentResult struct {
	PaymentID      string
	LoanID         string
	AmountCents    int64
	RemainingCents int64
	OccurredAt     time.Time
}

// RemainingDue returns the amount still owed given disbursed and repaid
// totals, floored at zero.
func RemainingDue(disbursedCents, repaidCents int64) int64 {
	if disbursedCents > repaidCents {
		return disbursedCents - repaidCents
	}
	return 0
}
