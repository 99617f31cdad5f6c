package models

import "time"

// LedgerKind mirrors the bank_ledger.kind enum.
type LedgerKind string

const (
	LedgerBaseCash      LedgerKind = "base_cash"
	LedgerDeposit       LedgerKind = "deposit"
	LedgerWithdrawal    LedgerKind = "withdrawal"
	LedgerLoanDisbursed LedgerKind = "loan_disbursed"
	LedgerLoanPayment   LedgerKind = "loan_payment"
	LedgerAdjustment    LedgerKind = "adjustment"
)

// LedgerEntry represents a row of the append-only bank_ledger table. At most
// one of the source reference columns is non-null.
type LedgerEntry struct {
	EntryID            string     `db:"entry_id"`
	Kind               LedgerKind `db:"kind"`
	AmountCents        int64      `db:"amount_cents"`
	OccurredAt         time.Time  `db:"occurred_at"`
	TransactionID      *string    `db:"transaction_id"`       // Nullable
	LoanDisbursementID *string    `db:"loan_disbursement_id"` // Nullable
	LoanPaymentID      *string    `db:"loan_payment_id"`      // Nullable
	Memo               *string    `db:"memo"`                 // Nullable
}
