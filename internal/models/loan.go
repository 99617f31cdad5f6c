package models

import "time"

// LoanStatus mirrors the loans.status enum.
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanRejected LoanStatus = "rejected"
	LoanClosed   LoanStatus = "closed"
)

// Loan represents a row of the loans table.
type Loan struct {
	LoanID         string     `db:"loan_id"`
	UserID         string     `db:"user_id"`
	PrincipalCents int64      `db:"principal_cents"`
	Status         LoanStatus `db:"status"`
	ClientKey      *string    `db:"client_key"` // Nullable idempotency key
	Reason         *string    `db:"reason"`     // Nullable
	CreatedAt      time.Time  `db:"created_at"`
	DecisionAt     time.Time  `db:"decision_at"`
}

// LoanDisbursement represents a row of the loan_disbursements table, 1:1
// with its approved loan.
type LoanDisbursement struct {
	DisbursementID string    `db:"disbursement_id"`
	LoanID         string    `db:"loan_id"`
	AmountCents    int64     `db:"amount_cents"`
	CreatedAt      time.Time `db:"created_at"`
}

// LoanPayment represents a row of the loan_payments table. The primary key
// is supplied by the client and acts as the idempotency key.
type LoanPayment struct {
	PaymentID         string    `db:"payment_id"`
	LoanID            string    `db:"loan_id"`
	AmountCents       int64     `db:"amount_cents"`
	PaidFromAccountID string    `db:"paid_from_account_id"`
	CreatedAt         time.Time `db:"created_at"`
}
